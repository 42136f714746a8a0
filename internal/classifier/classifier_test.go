package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combain-support-bot/internal/logging"
)

type stubGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func newClassifier(gen Generator) *Classifier {
	return New(gen, time.Second, logging.Discard())
}

func TestComplaintCheck(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		reply    string
		err      error
		want     Outcome
		degraded bool
		callsAPI bool
	}{
		{name: "keyword short-circuits", text: "I want to make a Complaint", want: OutcomeComplaint},
		{name: "model says complaint", text: "my order never arrived", reply: "  Complaint \n", want: OutcomeComplaint, callsAPI: true},
		{name: "model quotes answer", text: "my order never arrived", reply: "\"complaint\".", want: OutcomeComplaint, callsAPI: true},
		{name: "model says not complaint", text: "hello there", reply: "not complaint", want: OutcomeNotComplaint, callsAPI: true},
		{name: "unexpected answer", text: "hello there", reply: "maybe", want: OutcomeNotComplaint, callsAPI: true},
		{name: "empty answer", text: "hello there", reply: "", want: OutcomeNotComplaint, degraded: true, callsAPI: true},
		{name: "blank answer", text: "hello there", reply: " \n ", want: OutcomeNotComplaint, degraded: true, callsAPI: true},
		{name: "api error", text: "hello there", err: errors.New("503"), want: OutcomeNotComplaint, degraded: true, callsAPI: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{reply: tt.reply, err: tt.err}
			res := newClassifier(gen).Classify(context.Background(), tt.text, PurposeComplaintCheck)

			assert.Equal(t, tt.want, res.Outcome)
			assert.Equal(t, tt.degraded, res.Degraded)
			if tt.callsAPI {
				require.Len(t, gen.prompts, 1)
				assert.Contains(t, gen.prompts[0], tt.text)
				assert.Contains(t, gen.prompts[0], `exactly "complaint" or "not complaint"`)
			} else {
				assert.Empty(t, gen.prompts)
			}
		})
	}
}

func TestComplaintCheckIsIdempotent(t *testing.T) {
	c := newClassifier(&stubGenerator{reply: "complaint"})
	first := c.Classify(context.Background(), "the courier was rude", PurposeComplaintCheck)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Classify(context.Background(), "the courier was rude", PurposeComplaintCheck))
	}
}

func TestGeneralCannedRepliesSkipAPI(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "what merch do you have", want: MerchCatalog},
		{text: "Do you have a CATALOGUE?", want: MerchCatalog},
		{text: "can you recommend something", want: Recommendations},
		{text: "What does Combain do?", want: CompanyDescription},
		{text: "tell me about combain and its merch", want: CompanyDescription},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			gen := &stubGenerator{reply: "should not be used"}
			res := newClassifier(gen).Classify(context.Background(), tt.text, PurposeGeneral)

			assert.Equal(t, OutcomePromotionalQuery, res.Outcome)
			assert.Equal(t, tt.want, res.Reply)
			assert.Empty(t, gen.prompts)
		})
	}
}

func TestGeneralUsesPersonaPrompt(t *testing.T) {
	gen := &stubGenerator{reply: "  We open at 9am.  "}
	res := newClassifier(gen).Classify(context.Background(), "when do you open?", PurposeGeneral)

	assert.Equal(t, OutcomeGeneral, res.Outcome)
	assert.Equal(t, "We open at 9am.", res.Reply)
	assert.False(t, res.Degraded)
	require.Len(t, gen.prompts, 1)
	assert.True(t, strings.HasPrefix(gen.prompts[0], personaPrompt))
	assert.True(t, strings.HasSuffix(gen.prompts[0], "when do you open?"))
}

func TestGeneralEmptyReply(t *testing.T) {
	res := newClassifier(&stubGenerator{reply: "   "}).Classify(context.Background(), "hmm", PurposeGeneral)
	assert.Equal(t, EmptyReply, res.Reply)
}

func TestGeneralAPIErrorFallsBack(t *testing.T) {
	res := newClassifier(&stubGenerator{err: errors.New("connection reset")}).Classify(context.Background(), "hi", PurposeGeneral)

	assert.Equal(t, FallbackReply, res.Reply)
	assert.Equal(t, "There seems to be an issue at the moment. Let me check on that for you.", res.Reply)
	assert.True(t, res.Degraded)
}

func TestNilGeneratorFallsBack(t *testing.T) {
	c := newClassifier(nil)
	assert.Equal(t, FallbackReply, c.Classify(context.Background(), "hi", PurposeGeneral).Reply)

	res := c.Classify(context.Background(), "hi", PurposeComplaintCheck)
	assert.Equal(t, OutcomeNotComplaint, res.Outcome)
	assert.True(t, res.Degraded)
}

type slowGenerator struct{}

func (slowGenerator) Generate(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestTimeoutBoundsAPICall(t *testing.T) {
	c := New(slowGenerator{}, 20*time.Millisecond, logging.Discard())

	start := time.Now()
	res := c.Classify(context.Background(), "hi", PurposeGeneral)

	assert.Equal(t, FallbackReply, res.Reply)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestHasComplaintKeyword(t *testing.T) {
	assert.True(t, HasComplaintKeyword("I have a COMPLAINT about the merch I ordered"))
	assert.True(t, HasComplaintKeyword("I'd like to complain"))
	assert.False(t, HasComplaintKeyword("what merch do you have"))
}

func TestCannedMiss(t *testing.T) {
	_, ok := Canned("where is my parcel")
	assert.False(t, ok)
}
