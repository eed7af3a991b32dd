// Package render produces the human-readable artifact that gets sealed. The
// output bytes are hashed and stored verbatim, so rendering must be
// deterministic for a given input: same input, same bytes, same hash.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"
	"time"

	"github.com/aussiebroadwan/sigil/internal/signing/domain"
)

// Input is everything the artifact embeds. All of it comes from the verified
// signature and the signer snapshot, never from raw request input.
type Input struct {
	DocumentID  string
	Payload     json.RawMessage
	PayloadHash string
	Signer      domain.SignerIdentity
	SignedAt    time.Time
	Method      string
	Audit       domain.AuditTrail
}

var artifactTemplate = template.Must(template.New("artifact").Parse(
	`SIGNED DECLARATION
==================

Document:      {{.DocumentID}}
Signed at:     {{.SignedAtRFC3339}}
Method:        {{.Method}}

Signer
------
Name:          {{.Signer.Name}}
{{- if .Signer.Phone}}
Phone:         {{.Signer.Phone}}
{{- end}}
{{- if .Signer.Email}}
Email:         {{.Signer.Email}}
{{- end}}

Declaration content
-------------------
{{.PayloadPretty}}

Content digest: {{.PayloadHash}}

Verification audit trail
------------------------
Code delivered via {{.Audit.Channel}} to {{.Audit.DestinationMasked}}
Request IP:    {{.Audit.IP}}
Request agent: {{.Audit.Agent}}
`))

type templateData struct {
	Input
	SignedAtRFC3339 string
	PayloadPretty   string
}

// Artifact renders the signed artifact bytes.
func Artifact(in Input) ([]byte, error) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, in.Payload, "", "  "); err != nil {
		return nil, fmt.Errorf("render: payload is not valid JSON: %w", err)
	}

	data := templateData{
		Input:           in,
		SignedAtRFC3339: in.SignedAt.UTC().Format(time.RFC3339),
		PayloadPretty:   pretty.String(),
	}

	var out bytes.Buffer
	if err := artifactTemplate.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return out.Bytes(), nil
}
