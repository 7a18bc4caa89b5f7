// Package armor implements the PEM framing used to exchange RSA key material
// as text: base64 DER between BEGIN/END label lines, wrapped at 64 columns.
//
// Unlike encoding/pem, decoding is exact: the header, body line lengths and
// footer must match the shape DERToPEM produces for the same label, and any
// deviation is reported as a keyerr.KindMalformedPEM error.
package armor

import (
	"encoding/base64"
	"strings"
)

// LineWidth is the maximum number of base64 characters per body line.
const LineWidth = 64

const (
	LabelRSAPublicKey  = "RSA PUBLIC KEY"
	LabelPublicKey     = "PUBLIC KEY"
	LabelRSAPrivateKey = "RSA PRIVATE KEY"

	// DefaultLabel is used when a caller passes an empty label.
	DefaultLabel = LabelRSAPublicKey
)

// Header returns the BEGIN line for label, without its newline.
func Header(label string) string {
	return "-----BEGIN " + labelOrDefault(label) + "-----"
}

// Footer returns the END line for label, without its newline.
func Footer(label string) string {
	return "-----END " + labelOrDefault(label) + "-----"
}

// DERToPEM armors der under label. It never fails.
//
// Empty input produces a single empty body line so the result still has the
// three-part shape: "-----BEGIN X-----\n\n-----END X-----\n".
func DERToPEM(der []byte, label string) string {
	body := base64.StdEncoding.EncodeToString(der)

	var sb strings.Builder
	sb.Grow(len(body) + len(body)/LineWidth + 64)
	sb.WriteString(Header(label))
	sb.WriteByte('\n')
	for len(body) > LineWidth {
		sb.WriteString(body[:LineWidth])
		sb.WriteByte('\n')
		body = body[LineWidth:]
	}
	sb.WriteString(body)
	sb.WriteByte('\n')
	sb.WriteString(Footer(label))
	sb.WriteByte('\n')
	return sb.String()
}

// PEMToDER validates pem against the exact shape for label and returns the
// decoded DER bytes.
func PEMToDER(pem string, label string) ([]byte, error) {
	label = labelOrDefault(label)
	body, err := applyFrameRules(pem, label, frameRulesV1())
	if err != nil {
		return nil, err
	}
	lines, err := splitBody(body, label)
	if err != nil {
		return nil, err
	}
	return decodeBody(lines, label)
}

func labelOrDefault(label string) string {
	if label == "" {
		return DefaultLabel
	}
	return label
}
