package core

import (
	"github.com/mikey/spam-classifier/internal/classifier"
)

// Prediction is the result of scoring one text
type Prediction = classifier.Prediction

// Part is one body part of a mail, base64url encoded
type Part struct {
	Data string `json:"data"`
}

// MailContent is a single mail as delivered by a mail provider
type MailContent struct {
	ID    string `json:"id"`
	From  string `json:"from"`
	Parts []Part `json:"parts"`
}

// FormattedEmail is a mail flagged as spam, with its decoded text
type FormattedEmail struct {
	ID         string     `json:"id"`
	Content    string     `json:"content"`
	Prediction Prediction `json:"prediction"`
}

// FailedEmail is a mail that could not be scored
type FailedEmail struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// MailPredictResult summarizes the mails of one sender
type MailPredictResult struct {
	SenderEmail    string           `json:"senderEmail"`
	TotalSentEmail int              `json:"totalSentEmail"`
	TotalSpam      int              `json:"totalSpam"`
	Spams          []FormattedEmail `json:"spams"`
	Failures       []FailedEmail    `json:"failures,omitempty"`
}
