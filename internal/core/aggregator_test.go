package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMessageText(t *testing.T) {
	text, err := MessageText(mail("1", "a@x.com", "Hello", "World"))
	require.NoError(t, err)
	assert.Equal(t, "Hello World ", text)

	text, err = MessageText(MailContent{ID: "2", Parts: []Part{{Data: ""}}})
	require.NoError(t, err)
	assert.Equal(t, " ", text)

	_, err = MessageText(MailContent{ID: "3", Parts: []Part{{Data: "a"}}})
	assert.ErrorIs(t, err, ErrDecode)
}

func TestSummarizeGroupsBySender(t *testing.T) {
	mails := []MailContent{
		mail("1", "Shop <deals@shop.example>", "WIN a prize"),
		mail("2", "bob@x.com", "lunch?"),
		mail("3", "Shop <deals@shop.example>", "weekly newsletter"),
		mail("4", "Shop <deals@shop.example>", "WIN again", "now"),
		mail("5", "bob@x.com", "WIN big"),
	}

	agg := NewAggregator(&keywordPredictor{}, 3, false, zap.NewNop())
	results, err := agg.Summarize(context.Background(), mails)
	require.NoError(t, err)
	require.Len(t, results, 2)

	shop := results[0]
	assert.Equal(t, "deals@shop.example", shop.SenderEmail)
	assert.Equal(t, 3, shop.TotalSentEmail)
	assert.Equal(t, 2, shop.TotalSpam)
	require.Len(t, shop.Spams, 2)
	assert.Equal(t, "1", shop.Spams[0].ID)
	assert.Equal(t, "WIN a prize ", shop.Spams[0].Content)
	assert.True(t, shop.Spams[0].Prediction.IsSpam)
	assert.Equal(t, "4", shop.Spams[1].ID)
	assert.Equal(t, "WIN again now ", shop.Spams[1].Content)
	assert.Nil(t, shop.Failures)

	bob := results[1]
	assert.Equal(t, "bob@x.com", bob.SenderEmail)
	assert.Equal(t, 2, bob.TotalSentEmail)
	assert.Equal(t, 1, bob.TotalSpam)
	require.Len(t, bob.Spams, 1)
	assert.Equal(t, "5", bob.Spams[0].ID)
}

func TestSummarizeSpamCountMatchesSpams(t *testing.T) {
	var mails []MailContent
	for i := 0; i < 50; i++ {
		body := "hello"
		if i%3 == 0 {
			body = "WIN"
		}
		mails = append(mails, mail(string(rune('a'+i%26))+string(rune('0'+i/26)), "same@x.com", body))
	}

	results, err := NewAggregator(&keywordPredictor{}, 0, false, zap.NewNop()).Summarize(context.Background(), mails)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 50, results[0].TotalSentEmail)
	assert.Equal(t, 17, results[0].TotalSpam)
	assert.Len(t, results[0].Spams, results[0].TotalSpam)

	// Spams keep input order
	for i := 1; i < len(results[0].Spams); i++ {
		prev, cur := results[0].Spams[i-1].ID, results[0].Spams[i].ID
		assert.NotEqual(t, prev, cur)
	}
	assert.Equal(t, mails[0].ID, results[0].Spams[0].ID)
	assert.Equal(t, mails[48].ID, results[0].Spams[16].ID)
}

func TestSummarizeEmpty(t *testing.T) {
	results, err := NewAggregator(&keywordPredictor{}, 2, false, zap.NewNop()).Summarize(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSummarizeFailFast(t *testing.T) {
	mails := []MailContent{
		mail("1", "a@x.com", "hi"),
		mail("2", "a@x.com", "BOOM"),
		mail("3", "b@x.com", "WIN"),
	}

	_, err := NewAggregator(&keywordPredictor{}, 1, false, zap.NewNop()).Summarize(context.Background(), mails)
	assert.EqualError(t, err, "scoring exploded")

	// Decode failures abort the batch as well
	bad := []MailContent{{ID: "x", From: "a@x.com", Parts: []Part{{Data: "a"}}}}
	_, err = NewAggregator(&keywordPredictor{}, 1, false, zap.NewNop()).Summarize(context.Background(), bad)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestSummarizeIsolatedFailures(t *testing.T) {
	mails := []MailContent{
		mail("1", "a@x.com", "WIN"),
		mail("2", "a@x.com", "BOOM"),
		{ID: "3", From: "a@x.com", Parts: []Part{{Data: "a"}}},
		mail("4", "b@x.com", "hello"),
	}

	results, err := NewAggregator(&keywordPredictor{}, 2, true, zap.NewNop()).Summarize(context.Background(), mails)
	require.NoError(t, err)
	require.Len(t, results, 2)

	a := results[0]
	assert.Equal(t, 3, a.TotalSentEmail)
	assert.Equal(t, 1, a.TotalSpam)
	require.Len(t, a.Failures, 2)
	assert.Equal(t, "2", a.Failures[0].ID)
	assert.Equal(t, "scoring exploded", a.Failures[0].Error)
	assert.Equal(t, "3", a.Failures[1].ID)

	assert.Empty(t, results[1].Failures)
	assert.Equal(t, 0, results[1].TotalSpam)
	assert.NotNil(t, results[1].Spams)
}

func TestSummarizeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAggregator(&keywordPredictor{}, 1, false, zap.NewNop()).Summarize(ctx, []MailContent{mail("1", "a@x.com", "hi")})
	assert.ErrorIs(t, err, context.Canceled)
}
