package ticket_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
	"github.com/ganot/helpdesk-mcp/internal/errs"
)

type fakeSource struct {
	tickets  map[int64]ticket.Ticket
	comments map[int64][]ticket.Comment

	batch     []ticket.Ticket
	events    []ticket.Event
	hasMore   bool
	nextStart *int64

	gotStartTime  int64
	gotMaxResults int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		tickets:  make(map[int64]ticket.Ticket),
		comments: make(map[int64][]ticket.Comment),
	}
}

func (f *fakeSource) GetTicket(ctx context.Context, id int64) (*ticket.Ticket, error) {
	tk, ok := f.tickets[id]
	if !ok {
		return nil, errs.NotFound("ticket", id)
	}
	return &tk, nil
}

func (f *fakeSource) GetTickets(ctx context.Context, ids []int64) ([]ticket.Ticket, error) {
	var out []ticket.Ticket
	for _, id := range ids {
		if tk, ok := f.tickets[id]; ok {
			out = append(out, tk)
		}
	}
	return out, nil
}

func (f *fakeSource) GetTicketComments(ctx context.Context, id int64) ([]ticket.Comment, error) {
	return f.comments[id], nil
}

func (f *fakeSource) IncrementalTickets(ctx context.Context, startTime int64, maxResults int) ([]ticket.Ticket, bool, *int64, error) {
	f.gotStartTime = startTime
	f.gotMaxResults = maxResults
	return f.batch, f.hasMore, f.nextStart, nil
}

func (f *fakeSource) IncrementalTicketEvents(ctx context.Context, startTime int64, maxResults int) ([]ticket.Event, bool, *int64, error) {
	f.gotStartTime = startTime
	f.gotMaxResults = maxResults
	return f.events, f.hasMore, f.nextStart, nil
}

func TestGet(t *testing.T) {
	source := newFakeSource()
	source.tickets[42] = ticket.Ticket{ID: 42, Subject: "printer on fire"}

	svc := ticket.NewService(source, nil)
	tk, err := svc.Get(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, "printer on fire", tk.Subject)

	_, err = svc.Get(context.Background(), 0)
	require.True(t, errs.IsValidation(err))

	_, err = svc.Get(context.Background(), 404)
	require.True(t, errs.IsNotFound(err))
}

func TestGetMany(t *testing.T) {
	source := newFakeSource()
	source.tickets[1] = ticket.Ticket{ID: 1}
	source.tickets[2] = ticket.Ticket{ID: 2}

	svc := ticket.NewService(source, nil)

	// Unknown IDs are simply absent.
	list, err := svc.GetMany(context.Background(), []int64{1, 2, 999})
	require.NoError(t, err)
	require.Equal(t, 2, list.Count)

	_, err = svc.GetMany(context.Background(), nil)
	require.True(t, errs.IsValidation(err))

	_, err = svc.GetMany(context.Background(), []int64{1, -5})
	require.True(t, errs.IsValidation(err))
}

func TestComments(t *testing.T) {
	source := newFakeSource()
	source.comments[7] = []ticket.Comment{
		{ID: 100, Body: "first"},
		{ID: 101, Body: "second"},
	}

	svc := ticket.NewService(source, nil)
	thread, err := svc.Comments(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, int64(7), thread.TicketID)
	require.Equal(t, 2, thread.Count)

	_, err = svc.Comments(context.Background(), -1)
	require.True(t, errs.IsValidation(err))
}

func TestIncremental(t *testing.T) {
	next := int64(1700000500)
	source := newFakeSource()
	source.batch = []ticket.Ticket{{ID: 1}, {ID: 2}}
	source.hasMore = true
	source.nextStart = &next

	svc := ticket.NewService(source, nil)
	batch, err := svc.Incremental(context.Background(), 1700000000, 250)
	require.NoError(t, err)
	require.Equal(t, int64(1700000000), source.gotStartTime)
	require.Equal(t, 250, source.gotMaxResults)
	require.Equal(t, 2, batch.Count)
	require.True(t, batch.HasMore)
	require.Equal(t, next, *batch.NextStartTime)
}

func TestIncrementalEvents(t *testing.T) {
	source := newFakeSource()
	source.events = []ticket.Event{{ID: 9, TicketID: 1}}

	svc := ticket.NewService(source, nil)
	batch, err := svc.IncrementalEvents(context.Background(), 1700000000, 100)
	require.NoError(t, err)
	require.Equal(t, 1, batch.Count)
	require.False(t, batch.HasMore)
	require.Nil(t, batch.NextStartTime)
}
