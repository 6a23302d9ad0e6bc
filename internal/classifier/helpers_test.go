package classifier

import (
	"fmt"
	"strings"
)

var (
	spamTemplates = []string{
		"WINNER!! You have won a free cash prize of £%d. Call now to claim",
		"URGENT! Your mobile number has been awarded a %d bonus. Txt CLAIM to 8007",
		"Free entry to win a brand new phone. Text WIN to %d now",
		"Congratulations you won %d pounds cash prize, claim your reward today",
	}
	hamTemplates = []string{
		"Are we still meeting for lunch at %d? Let me know",
		"I'll be home around %d, can you pick up some bread on the way",
		"Sorry I missed your call, I was in a meeting until %d",
		"Ok see you at the station at %d then, take care",
	}
)

// syntheticMessages returns n labeled records alternating between spam and ham
func syntheticMessages(n int) []LabeledMessage {
	records := make([]LabeledMessage, n)
	for i := range records {
		if i%2 == 0 {
			records[i] = LabeledMessage{
				RawLabel: "spam",
				Text:     fmt.Sprintf(spamTemplates[(i/2)%len(spamTemplates)], 100+i),
			}
		} else {
			records[i] = LabeledMessage{
				RawLabel: "ham",
				Text:     fmt.Sprintf(hamTemplates[(i/2)%len(hamTemplates)], 1+i%12),
			}
		}
	}
	return records
}

// toTSV renders records as a dataset file with a header row
func toTSV(records []LabeledMessage) string {
	var sb strings.Builder
	sb.WriteString("Label\tMessage\n")
	for _, rec := range records {
		sb.WriteString(rec.RawLabel)
		sb.WriteString("\t")
		sb.WriteString(rec.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}
