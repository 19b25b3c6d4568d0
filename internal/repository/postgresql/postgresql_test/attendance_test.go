package postgresqltest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-window-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-window-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	companyID  string
	branchID   string
	employeeID string
}

func setupRepository(t *testing.T) (*TestDatabaseSetup, attendance.AttendanceRepository) {
	t.Helper()
	ctx := context.Background()

	setup, ok, err := NewTestDatabase(ctx)
	if !ok {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, err)
	t.Cleanup(setup.Close)

	require.NoError(t, setup.Migrate(ctx))
	require.NoError(t, setup.TruncateAllTables(ctx))

	return setup, postgresql.NewAttendanceRepository(setup.DB)
}

func seedEmployee(t *testing.T, setup *TestDatabaseSetup, timezone string) fixture {
	t.Helper()
	ctx := context.Background()

	f := fixture{
		companyID:  uuid.NewString(),
		branchID:   uuid.NewString(),
		employeeID: uuid.NewString(),
	}

	err := postgresql.WithTransaction(ctx, setup.DB, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO branches (id, company_id, name, timezone) VALUES ($1, $2, 'HQ', $3)`,
			f.branchID, f.companyID, timezone); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO employees (id, company_id, branch_id, full_name) VALUES ($1, $2, $3, 'Budi Santoso')`,
			f.employeeID, f.companyID, f.branchID)
		return err
	})
	require.NoError(t, err)

	return f
}

func seedAttendance(t *testing.T, setup *TestDatabaseSetup, f fixture, date time.Time, clockIn, clockOut *time.Time) string {
	t.Helper()
	id := uuid.NewString()
	_, err := setup.DB.Exec(context.Background(),
		`INSERT INTO attendances (id, employee_id, company_id, date, clock_in, clock_out)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, f.employeeID, f.companyID, date, clockIn, clockOut)
	require.NoError(t, err)
	return id
}

func TestAttendanceRepository_GetByEmployeeAndDate(t *testing.T) {
	setup, repo := setupRepository(t)
	ctx := context.Background()
	f := seedEmployee(t, setup, "Asia/Jakarta")

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	clockIn := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)
	id := seedAttendance(t, setup, f, date, &clockIn, nil)

	t.Run("found", func(t *testing.T) {
		att, err := repo.GetByEmployeeAndDate(ctx, f.employeeID, date, f.companyID)
		require.NoError(t, err)
		require.NotNil(t, att)
		assert.Equal(t, id, att.ID)
		require.NotNil(t, att.ClockIn)
		assert.True(t, clockIn.Equal(*att.ClockIn))
		assert.Nil(t, att.ClockOut)
		assert.False(t, att.LateCheckoutApproved)
	})

	t.Run("absent returns nil", func(t *testing.T) {
		att, err := repo.GetByEmployeeAndDate(ctx, f.employeeID, date.AddDate(0, 0, 1), f.companyID)
		require.NoError(t, err)
		assert.Nil(t, att)
	})

	t.Run("other company returns nil", func(t *testing.T) {
		att, err := repo.GetByEmployeeAndDate(ctx, f.employeeID, date, uuid.NewString())
		require.NoError(t, err)
		assert.Nil(t, att)
	})
}

func TestAttendanceRepository_GetTimezoneByEmployeeID(t *testing.T) {
	setup, repo := setupRepository(t)
	ctx := context.Background()
	f := seedEmployee(t, setup, "Asia/Makassar")

	tz, err := repo.GetTimezoneByEmployeeID(ctx, f.employeeID, f.companyID)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Makassar", tz)

	_, err = repo.GetTimezoneByEmployeeID(ctx, uuid.NewString(), f.companyID)
	assert.True(t, errors.Is(err, pgx.ErrNoRows))
}

func TestAttendanceRepository_ListOpenSessions(t *testing.T) {
	setup, repo := setupRepository(t)
	ctx := context.Background()
	f := seedEmployee(t, setup, "Asia/Jakarta")

	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }
	at := func(d, h int) *time.Time {
		v := time.Date(2025, 3, d, h, 0, 0, 0, time.UTC)
		return &v
	}

	seedAttendance(t, setup, f, day(8), at(8, 1), nil) // before since
	openID := seedAttendance(t, setup, f, day(9), at(9, 1), nil)
	seedAttendance(t, setup, f, day(10), at(10, 1), at(10, 9)) // closed

	sessions, err := repo.ListOpenSessions(ctx, day(9))
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	assert.Equal(t, openID, sessions[0].ID)
	require.NotNil(t, sessions[0].Timezone)
	assert.Equal(t, "Asia/Jakarta", *sessions[0].Timezone)
	require.NotNil(t, sessions[0].EmployeeName)
	assert.Equal(t, "Budi Santoso", *sessions[0].EmployeeName)
}

func TestWithTransaction_RollbackHidesWrites(t *testing.T) {
	setup, repo := setupRepository(t)
	ctx := context.Background()
	f := seedEmployee(t, setup, "UTC")
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	boom := errors.New("abort")

	err := postgresql.WithTransaction(ctx, setup.DB, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO attendances (id, employee_id, company_id, date, clock_in) VALUES ($1, $2, $3, $4, NOW())`,
			uuid.NewString(), f.employeeID, f.companyID, date)
		require.NoError(t, err)

		// reads through the tx context see the uncommitted row
		att, err := repo.GetByEmployeeAndDate(ctx, f.employeeID, date, f.companyID)
		require.NoError(t, err)
		require.NotNil(t, att)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	att, err := repo.GetByEmployeeAndDate(ctx, f.employeeID, date, f.companyID)
	require.NoError(t, err)
	assert.Nil(t, att)
}
