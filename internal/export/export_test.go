package export

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mmynk/groupsplit/internal/ledger"
	"github.com/mmynk/groupsplit/internal/storage/memory"
)

func lunchLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	ctx := context.Background()
	l := ledger.New(memory.New())

	a, _, err := l.CreateMember(ctx, ledger.MemberInput{Name: "Alice"})
	require.NoError(t, err)
	b, _, err := l.CreateMember(ctx, ledger.MemberInput{Name: "Bob"})
	require.NoError(t, err)
	c, _, err := l.CreateMember(ctx, ledger.MemberInput{Name: "Charlie"})
	require.NoError(t, err)

	_, err = l.CreateActivity(ctx, ledger.ActivityInput{
		Name:    "Lunch",
		Amount:  300,
		PayerID: a.ID,
		Participants: []ledger.ParticipantInput{
			{MemberID: a.ID}, {MemberID: b.ID}, {MemberID: c.ID},
		},
	})
	require.NoError(t, err)

	_, err = l.SaveTransaction(ctx, ledger.TransferInput{FromMemberID: b.ID, ToMemberID: a.ID, Amount: 100})
	require.NoError(t, err)
	return l
}

func TestWrite(t *testing.T) {
	l := lunchLedger(t)
	report, err := Build(context.Background(), l)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetBalances, SheetProposed, SheetTransactions}, f.GetSheetList())

	balances, err := f.GetRows(SheetBalances)
	require.NoError(t, err)
	require.Len(t, balances, 4)
	assert.Equal(t, []string{"Member", "Paid", "Should pay", "Balance"}, balances[0])
	assert.Equal(t, []string{"Alice", "300", "100", "200"}, balances[1])
	assert.Equal(t, []string{"Bob", "0", "100", "-100"}, balances[2])

	proposed, err := f.GetRows(SheetProposed)
	require.NoError(t, err)
	require.Len(t, proposed, 3)
	assert.Equal(t, []string{"Bob", "Alice", "100"}, proposed[1])
	assert.Equal(t, []string{"Charlie", "Alice", "100"}, proposed[2])

	transactions, err := f.GetRows(SheetTransactions)
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, []string{"Bob", "Alice", "100", "completed"}, transactions[1][:4])

	total, err := f.GetCellValue(SheetSummary, "B3")
	require.NoError(t, err)
	assert.Equal(t, "300", total)
}

func TestBuild_KeepsSessionState(t *testing.T) {
	ctx := context.Background()
	l := lunchLedger(t)
	_, _, err := l.FinishSession(ctx)
	require.NoError(t, err)
	require.Equal(t, ledger.StateClosing, l.State())

	report, err := Build(ctx, l)
	require.NoError(t, err)

	assert.Equal(t, ledger.StateClosing, report.Results.State)
	assert.Equal(t, ledger.StateClosing, l.State())
}

func TestHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler(lunchLedger(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export.xlsx", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "groupsplit_")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 4)
}
