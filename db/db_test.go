package db_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"procurement/db"
	"procurement/models"
)

func newMockStorage(t *testing.T) (*db.Storage, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return db.NewStorage(sqlx.NewDb(conn, "postgres")), mock
}

func TestCreateRFPAssignsID(t *testing.T) {
	store, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO rfps")).
		WithArgs(sqlmock.AnyArg(), "Laptops", "", "", sqlmock.AnyArg(), 40, 30, 30, "", "", sqlmock.AnyArg(), models.RFPDraft, "u1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	r := &models.RFP{Title: "Laptops", FunctionalWeight: 40, SecurityWeight: 30, BusinessWeight: 30, Status: models.RFPDraft, CreatedBy: "u1"}
	require.NoError(t, store.CreateRFP(context.Background(), r))
	require.NotEmpty(t, r.ID)
	require.Equal(t, now, r.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRFPNotFound(t *testing.T) {
	store, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM rfps WHERE id=$1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetRFP(context.Background(), "missing")
	require.ErrorIs(t, err, models.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEvaluationReturnsExistingOnConflict(t *testing.T) {
	store, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (proposal_id, evaluator_id) DO NOTHING")).
		WithArgs(sqlmock.AnyArg(), "p1", "e1", models.EvaluationPending).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM evaluations WHERE proposal_id=$1 AND evaluator_id=$2")).
		WithArgs("p1", "e1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "proposal_id", "evaluator_id", "status", "overall_score"}).
			AddRow("existing", "p1", "e1", models.EvaluationCompleted, 77))

	e := &models.Evaluation{ProposalID: "p1", EvaluatorID: "e1"}
	created, err := store.CreateEvaluation(context.Background(), e)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "existing", e.ID)
	require.Equal(t, models.EvaluationCompleted, e.Status)
	require.Equal(t, 77, e.OverallScore)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEvaluationInserts(t *testing.T) {
	store, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO evaluations")).
		WithArgs(sqlmock.AnyArg(), "p1", "e1", models.EvaluationPending).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	e := &models.Evaluation{ProposalID: "p1", EvaluatorID: "e1"}
	created, err := store.CreateEvaluation(context.Background(), e)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, models.EvaluationPending, e.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListProposalsByRFPSet(t *testing.T) {
	store, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM proposals WHERE rfp_id IN ($1,$2) ORDER BY created_at DESC")).
		WithArgs("r1", "r2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "rfp_id", "status", "awaiting_approval"}).
			AddRow("p1", "r1", models.ProposalSubmitted, false).
			AddRow("p2", "r2", models.ProposalUnderReview, true))

	got, err := store.ListProposals(context.Background(), models.ProposalFilter{RFPIDs: []string{"r1", "r2"}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.True(t, got[1].AwaitingApproval)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListProposalsEmptySetMatchesNothing(t *testing.T) {
	store, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM proposals WHERE (1=0)")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := store.ListProposals(context.Background(), models.ProposalFilter{RFPIDs: []string{}})
	require.NoError(t, err)
	require.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListEvaluationsFilters(t *testing.T) {
	store, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM evaluations WHERE evaluator_id = $1 AND status = $2")).
		WithArgs("e1", models.EvaluationPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "evaluator_id", "status"}).AddRow("ev1", "e1", models.EvaluationPending))

	got, err := store.ListEvaluations(context.Background(), models.EvaluationFilter{EvaluatorID: "e1", Status: models.EvaluationPending})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkNotificationReadForeignUser(t *testing.T) {
	store, mock := newMockStorage(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET is_read=TRUE WHERE id=$1 AND user_id=$2")).
		WithArgs("n1", "someone-else").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.MarkNotificationRead(context.Background(), "n1", "someone-else")
	require.ErrorIs(t, err, models.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountUnreadNotifications(t *testing.T) {
	store, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(1) FROM notifications")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := store.CountUnreadNotifications(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddTeamMemberUpserts(t *testing.T) {
	store, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (rfp_id, user_id) DO UPDATE")).
		WithArgs("r1", "u2", models.TeamEvaluator, "u1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	m := &models.TeamMember{RFPID: "r1", UserID: "u2", Role: models.TeamEvaluator, AddedBy: "u1"}
	require.NoError(t, store.AddTeamMember(context.Background(), m))
	require.Equal(t, now, m.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}
