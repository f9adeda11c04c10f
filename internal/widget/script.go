package widget

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

//go:embed assets/widget.js
var scriptSource string

var scriptTemplate = template.Must(template.New("widget.js").Parse(scriptSource))

type scriptMessages struct {
	Empty     string
	Thanks    string
	Rejected  string
	Transport string
}

// Script renders the browser runtime that posts to endpoint. Host pages load
// it and call FeedbackWidget.init(config).
func Script(endpoint string) ([]byte, error) {
	var buf bytes.Buffer
	err := scriptTemplate.Execute(&buf, struct {
		Endpoint        string
		DefaultPosition Position
		DefaultColor    string
		Positions       []Position
		Messages        scriptMessages
	}{
		Endpoint:        endpoint,
		DefaultPosition: DefaultPosition,
		DefaultColor:    DefaultColor,
		Positions:       Positions,
		Messages: scriptMessages{
			Empty:     MsgEmptyFeedback,
			Thanks:    MsgThankYou,
			Rejected:  MsgRejected,
			Transport: MsgTransport,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("render widget script: %w", err)
	}
	return buf.Bytes(), nil
}
