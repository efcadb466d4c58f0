package memstore

import "procurement/models"

// DefaultTemplates совпадают с миграцией 00002_default_templates.sql
var DefaultTemplates = []models.Template{
	{
		ID:       "tpl-software-dev",
		Name:     "Software Development Services",
		Category: "software",
		Content:  "# Request for Proposal: Software Development\n\n## Background\n\n## Scope of Work\n\n## Technical Requirements\n\n## Security Requirements\n\n## Commercial Terms\n\n## Submission Instructions\n",
		IsActive: true,
	},
	{
		ID:       "tpl-cloud-infra",
		Name:     "Cloud Infrastructure",
		Category: "infrastructure",
		Content:  "# Request for Proposal: Cloud Infrastructure\n\n## Current Environment\n\n## Target Architecture\n\n## Availability and Support\n\n## Data Protection and Compliance\n\n## Pricing Model\n",
		IsActive: true,
	},
	{
		ID:       "tpl-consulting",
		Name:     "Consulting Engagement",
		Category: "services",
		Content:  "# Request for Proposal: Consulting Services\n\n## Objectives\n\n## Deliverables\n\n## Team and Experience\n\n## Timeline\n\n## Budget\n",
		IsActive: true,
	},
}
