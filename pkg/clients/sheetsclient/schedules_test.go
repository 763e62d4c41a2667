package sheetsclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func testSchedule() *PublishedSchedule {
	return &PublishedSchedule{
		Year:  2025,
		Month: time.March,
		Rows: []PublishedScheduleRow{
			{Date: day("2025-03-03"), Lessons: "MW", Members: []string{"Alice", "Bob"}},
			{Date: day("2025-03-04"), Lessons: "TT", Members: []string{"Carol"}},
			{Date: day("2025-03-05"), Lessons: "MW", Members: nil},
		},
	}
}

func TestScheduleTabTitle(t *testing.T) {
	assert.Equal(t, "Cleaning March 2025", ScheduleTabTitle(2025, time.March))
	assert.Equal(t, "Cleaning December 2026", ScheduleTabTitle(2026, time.December))
}

func TestBuildScheduleRows_NewTab(t *testing.T) {
	rows := buildScheduleRows(nil, testSchedule())

	require.Len(t, rows, 6)
	assert.Equal(t, []interface{}{"Cleaning rota", "March 2025"}, rows[0])
	assert.Empty(t, rows[1])
	assert.Equal(t, []interface{}{"Date", "Day", "Lessons", "Member 1", "Member 2"}, rows[2])
	assert.Equal(t, []interface{}{"Mon 03 Mar 2025", "Monday", "MW", "Alice", "Bob"}, rows[3])
	assert.Equal(t, []interface{}{"Tue 04 Mar 2025", "Tuesday", "TT", "Carol", ""}, rows[4])
	assert.Equal(t, []interface{}{"Wed 05 Mar 2025", "Wednesday", "MW", "", ""}, rows[5])
}

func TestBuildScheduleRows_PreservesCustomColumns(t *testing.T) {
	existing := [][]interface{}{
		{"Cleaning rota", "March 2025"},
		{},
		{"Date", "Day", "Lessons", "Member 1", "Member 2", "Member 3", "Done", "Notes"},
		{"Mon 03 Mar 2025", "Monday", "MW", "Old", "", "", "yes", "mopped"},
		{"Tue 04 Mar 2025", "Tuesday", "TT", "Old", "", "", "no"},
		{"Thu 27 Mar 2025", "Thursday", "TT", "Gone", "", "", "yes", "dropped date"},
	}

	rows := buildScheduleRows(existing, testSchedule())

	require.Len(t, rows, 6)
	assert.Equal(t, []interface{}{"Date", "Day", "Lessons", "Member 1", "Member 2", "Done", "Notes"}, rows[2])
	assert.Equal(t, []interface{}{"Mon 03 Mar 2025", "Monday", "MW", "Alice", "Bob", "yes", "mopped"}, rows[3])
	assert.Equal(t, []interface{}{"Tue 04 Mar 2025", "Tuesday", "TT", "Carol", "", "no", ""}, rows[4])
	assert.Equal(t, []interface{}{"Wed 05 Mar 2025", "Wednesday", "MW", "", "", "", ""}, rows[5])
}

func TestIsManagedColumn(t *testing.T) {
	assert.True(t, isManagedColumn("Date"))
	assert.True(t, isManagedColumn("Member 12"))
	assert.False(t, isManagedColumn("Notes"))
	assert.False(t, isManagedColumn("Members"))
}

// fakeSheetsServer records requests made by the client against a canned spreadsheet
type fakeSheetsServer struct {
	mu       sync.Mutex
	tabs     []string
	values   map[string][][]interface{}
	requests []string
	written  [][]interface{}
}

func (f *fakeSheetsServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/spreadsheets/sheet-1"):
		sheetsList := []map[string]any{}
		for _, title := range f.tabs {
			sheetsList = append(sheetsList, map[string]any{"properties": map[string]any{"title": title}})
		}
		json.NewEncoder(w).Encode(map[string]any{"sheets": sheetsList})
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":batchUpdate"):
		json.NewEncoder(w).Encode(map[string]any{
			"replies": []map[string]any{{"addSheet": map[string]any{"properties": map[string]any{"sheetId": 7}}}},
		})
	case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/values/"):
		tab := r.URL.Path[strings.Index(r.URL.Path, "/values/")+len("/values/"):]
		json.NewEncoder(w).Encode(map[string]any{"range": tab, "values": f.values[tab]})
	case r.Method == http.MethodPut && strings.Contains(r.URL.Path, "/values/"):
		body, _ := io.ReadAll(r.Body)
		var vr sheets.ValueRange
		json.Unmarshal(body, &vr)
		f.written = vr.Values
		json.NewEncoder(w).Encode(map[string]any{})
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":clear"):
		json.NewEncoder(w).Encode(map[string]any{})
	default:
		http.Error(w, "unexpected request", http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, fake *fakeSheetsServer) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	service, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	return NewClientWithService(service, zap.NewNop())
}

func TestClient_ListMembers(t *testing.T) {
	fake := &fakeSheetsServer{values: map[string][][]interface{}{
		"Members": {
			{"Member ID", "Name", "Lessons"},
			{"m1", "Alice", "MW,TT"},
		},
	}}
	client := newTestClient(t, fake)

	members, err := client.ListMembers(context.Background(), "sheet-1", "Members")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Alice", members[0].Name)
	assert.Len(t, members[0].Lessons, 2)

	_, err = client.ListMembers(context.Background(), "sheet-1", "Empty")
	assert.ErrorContains(t, err, "is empty")
}

func TestClient_PublishScheduleCreatesTab(t *testing.T) {
	fake := &fakeSheetsServer{tabs: []string{"Members"}}
	client := newTestClient(t, fake)

	require.NoError(t, client.PublishSchedule(context.Background(), "sheet-1", testSchedule()))

	assert.Contains(t, fake.requests, "POST /v4/spreadsheets/sheet-1:batchUpdate")
	require.Len(t, fake.written, 6)
	assert.Equal(t, []interface{}{"Mon 03 Mar 2025", "Monday", "MW", "Alice", "Bob"}, fake.written[3])
}

func TestClient_PublishScheduleOverwritesExistingTab(t *testing.T) {
	fake := &fakeSheetsServer{
		tabs: []string{"Cleaning March 2025"},
		values: map[string][][]interface{}{
			"Cleaning March 2025": {
				{"Cleaning rota", "March 2025"},
				{},
				{"Date", "Day", "Lessons", "Member 1", "Notes"},
				{"Mon 03 Mar 2025", "Monday", "MW", "Old", "bring mop"},
			},
		},
	}
	client := newTestClient(t, fake)

	require.NoError(t, client.PublishSchedule(context.Background(), "sheet-1", testSchedule()))

	assert.NotContains(t, fake.requests, "POST /v4/spreadsheets/sheet-1:batchUpdate")
	assert.Contains(t, fake.requests, "POST /v4/spreadsheets/sheet-1/values/Cleaning March 2025:clear")
	require.Len(t, fake.written, 6)
	assert.Equal(t, []interface{}{"Date", "Day", "Lessons", "Member 1", "Member 2", "Notes"}, fake.written[2])
	assert.Equal(t, []interface{}{"Mon 03 Mar 2025", "Monday", "MW", "Alice", "Bob", "bring mop"}, fake.written[3])
}
