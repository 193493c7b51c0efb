package main

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/suPer8Hu/brand-assistant/internal/chat"
)

type fakeTitler struct {
	err      error
	calls    int
	id       uint64
	user     string
	expected string
	final    bool
}

func (f *fakeTitler) GenerateTitleFor(ctx context.Context, id uint64, userID, expectedTitle string, final bool) (string, error) {
	_ = ctx
	f.calls++
	f.id, f.user, f.expected, f.final = id, userID, expectedTitle, final
	if f.err != nil {
		return "", f.err
	}
	return "A Title", nil
}

type fakeRetrier struct {
	err      error
	attempts []int
}

func (f *fakeRetrier) Retry(ctx context.Context, body []byte, attempt int, delay time.Duration) error {
	_, _, _ = ctx, body, delay
	f.attempts = append(f.attempts, attempt)
	return f.err
}

const goodBody = `{"conversation_id":9,"user_id":"u-1","expected_title":"New Conversation"}`

func TestProcess(t *testing.T) {
	dbErr := errors.New("database is locked")
	upstreamErr := fmt.Errorf("%w: 503", chat.ErrUpstreamUnavailable)

	cases := []struct {
		name        string
		body        string
		attempt     int
		titleErr    error
		retryErr    error
		want        outcome
		wantRetries []int
		wantFinal   bool
	}{
		{name: "success", body: goodBody, want: outcomeAck},
		{name: "bad body", body: `{"conversation_id":0}`, want: outcomeDeadLetter},
		{name: "not found is dropped", body: goodBody, titleErr: fmt.Errorf("load: %w", chat.ErrNotFound), want: outcomeAck},
		{name: "transient failure retries", body: goodBody, titleErr: dbErr, want: outcomeAck, wantRetries: []int{1}},
		{name: "retry publish failure", body: goodBody, titleErr: dbErr, retryErr: errors.New("closed"), want: outcomeDeadLetter, wantRetries: []int{1}},
		{name: "attempts exhausted", body: goodBody, attempt: maxAttempts - 1, titleErr: dbErr, want: outcomeDeadLetter, wantFinal: true},
		{name: "already titled is acked", body: goodBody, titleErr: chat.ErrAlreadyTitled, want: outcomeAck},
		{name: "upstream outage retries", body: goodBody, attempt: 1, titleErr: upstreamErr, want: outcomeAck, wantRetries: []int{2}},
		{name: "last attempt allows fallback", body: goodBody, attempt: maxAttempts - 1, want: outcomeAck, wantFinal: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ti := &fakeTitler{err: tc.titleErr}
			re := &fakeRetrier{err: tc.retryErr}

			got := process(context.Background(), ti, re, []byte(tc.body), tc.attempt)
			if got != tc.want {
				t.Fatalf("expected outcome %d, got %d", tc.want, got)
			}
			if fmt.Sprint(re.attempts) != fmt.Sprint(tc.wantRetries) {
				t.Fatalf("expected retries %v, got %v", tc.wantRetries, re.attempts)
			}
			if tc.body == goodBody && (ti.id != 9 || ti.user != "u-1" || ti.expected != "New Conversation") {
				t.Fatalf("unexpected job dispatch id=%d user=%q expected=%q", ti.id, ti.user, ti.expected)
			}
			if ti.final != tc.wantFinal {
				t.Fatalf("expected final=%v, got %v", tc.wantFinal, ti.final)
			}
		})
	}
}
