package armor

import (
	"encoding/base64"
	"strings"

	"xdao.co/rsakey/keyerr"
)

type frameRule struct {
	id    string
	apply func(pem, label string) error
}

func applyFrameRules(pem, label string, rules []frameRule) (string, error) {
	for _, r := range rules {
		if r.apply == nil {
			return "", keyerr.Internal("RSAKEY-INTERNAL-010", "nil frame rule "+r.id, nil)
		}
		if err := r.apply(pem, label); err != nil {
			return "", err
		}
	}
	header := Header(label) + "\n"
	footer := Footer(label) + "\n"
	return pem[len(header) : len(pem)-len(footer)], nil
}

func frameRulesV1() []frameRule {
	return []frameRule{
		{
			id: "RSAKEY-PEM-001",
			apply: func(pem, label string) error {
				if !strings.HasPrefix(pem, Header(label)+"\n") {
					return keyerr.PEM("RSAKEY-PEM-001", label, "missing "+Header(label)+" line")
				}
				return nil
			},
		},
		{
			id: "RSAKEY-PEM-002",
			apply: func(pem, label string) error {
				header := Header(label) + "\n"
				footer := Footer(label) + "\n"
				if len(pem) < len(header)+len(footer) || !strings.HasSuffix(pem, footer) {
					return keyerr.PEM("RSAKEY-PEM-002", label, "missing "+Footer(label)+" line or trailing content")
				}
				return nil
			},
		},
		{
			id: "RSAKEY-PEM-010",
			apply: func(pem, label string) error {
				header := Header(label) + "\n"
				footer := Footer(label) + "\n"
				body := pem[len(header) : len(pem)-len(footer)]
				if body == "" {
					return keyerr.PEM("RSAKEY-PEM-010", label, "missing body")
				}
				if !strings.HasSuffix(body, "\n") {
					return keyerr.PEM("RSAKEY-PEM-002", label, Footer(label)+" must be on its own line")
				}
				return nil
			},
		},
	}
}

// splitBody returns the body lines. A body made of a single empty line is the
// armored form of empty input and yields no lines.
func splitBody(body, label string) ([]string, error) {
	body = strings.TrimSuffix(body, "\n")
	if body == "" {
		return nil, nil
	}
	lines := strings.Split(body, "\n")
	last := len(lines) - 1
	for i, line := range lines {
		if c, ok := firstIllegal(line); ok {
			return nil, keyerr.PEM("RSAKEY-PEM-020", label, "illegal character "+quoteByte(c)+" in body")
		}
		if i < last && len(line) != LineWidth {
			return nil, keyerr.PEM("RSAKEY-PEM-011", label, "body line is not 64 characters")
		}
		if i == last && (len(line) == 0 || len(line) > LineWidth) {
			return nil, keyerr.PEM("RSAKEY-PEM-011", label, "final body line must hold 1-64 characters")
		}
	}
	return lines, nil
}

func decodeBody(lines []string, label string) ([]byte, error) {
	if len(lines) == 0 {
		return []byte{}, nil
	}
	der, err := base64.StdEncoding.Strict().DecodeString(strings.Join(lines, ""))
	if err != nil {
		return nil, keyerr.WrapPEM("RSAKEY-PEM-021", label, "invalid base64 body", err)
	}
	return der, nil
}

func firstIllegal(line string) (byte, bool) {
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '+', c == '/', c == '=':
		default:
			return c, true
		}
	}
	return 0, false
}

func quoteByte(c byte) string {
	const hex = "0123456789abcdef"
	if c >= 0x21 && c < 0x7f {
		return "'" + string(c) + "'"
	}
	return "0x" + string([]byte{hex[c>>4], hex[c&0x0f]})
}
