package reports

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"
)

const (
	sheetOverview  = "Overview"
	sheetVendors   = "Vendors"
	sheetProposals = "Proposals"
)

// WriteXLSX пишет книгу с листами Overview, Vendors и Proposals
func WriteXLSX(w io.Writer, d Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetOverview); err != nil {
		return err
	}
	for _, name := range []string{sheetVendors, sheetProposals} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	if err := writeOverview(f, BuildOverview(d)); err != nil {
		return err
	}
	if err := writeVendors(f, VendorAnalytics(d)); err != nil {
		return err
	}
	if err := writeProposals(f, d); err != nil {
		return err
	}
	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func writeOverview(f *excelize.File, o Overview) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total RFPs", o.TotalRFPs},
		{"Total proposals", o.TotalProposals},
		{"Total evaluations", o.TotalEvaluations},
		{"Completed evaluations", o.CompletedEvaluations},
		{"Completion rate, %", fmt.Sprintf("%.1f", o.CompletionRate)},
	}
	statuses := make([]string, 0, len(o.RFPsByStatus))
	for s := range o.RFPsByStatus {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		rows = append(rows, []interface{}{"RFPs " + s, o.RFPsByStatus[s]})
	}
	for i, r := range rows {
		if err := setRow(f, sheetOverview, i+1, r...); err != nil {
			return err
		}
	}
	return nil
}

func writeVendors(f *excelize.File, stats []VendorStat) error {
	if err := setRow(f, sheetVendors, 1, "Vendor", "Proposals", "Shortlisted", "Rejected", "Evaluations", "Mean overall"); err != nil {
		return err
	}
	for i, st := range stats {
		if err := setRow(f, sheetVendors, i+2, st.Name, st.Proposals, st.Shortlisted, st.Rejected, st.Evaluated, st.MeanOverall); err != nil {
			return err
		}
	}
	return nil
}

func writeProposals(f *excelize.File, d Dataset) error {
	if err := setRow(f, sheetProposals, 1, "RFP", "Rank", "Vendor", "Status", "Completed", "Pending", "Mean overall", "Recommendation"); err != nil {
		return err
	}
	row := 2
	for _, r := range d.RFPs {
		for _, c := range Scorecards(d, r.ID) {
			if err := setRow(f, sheetProposals, row, r.Title, c.Rank, c.VendorName, c.Status,
				c.Summary.Completed, c.Summary.Pending, c.Summary.MeanOverall, c.Summary.Label); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}
