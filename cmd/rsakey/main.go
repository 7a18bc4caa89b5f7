package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"xdao.co/rsakey/armor"
	"xdao.co/rsakey/cidutil"
	"xdao.co/rsakey/compliance"
	"xdao.co/rsakey/convsvc"
	"xdao.co/rsakey/keyerr"
	"xdao.co/rsakey/keys"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "pem":
		return cmdPEM(args[1:], in, out, errOut)
	case "wrap":
		return cmdWrap(args[1:], in, out, errOut)
	case "unwrap":
		return cmdUnwrap(args[1:], in, out, errOut)
	case "pub":
		return cmdPub(args[1:], in, out, errOut)
	case "id":
		return cmdID(args[1:], in, out, errOut)
	case "fetch":
		return cmdFetch(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "rsakey: RSA key format conversion")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  rsakey pem encode [--label <label>] <file>")
	fmt.Fprintln(w, "  rsakey pem decode [--label <label>] <file>")
	fmt.Fprintln(w, "  rsakey wrap [--pem] <pkcs1-public>")
	fmt.Fprintln(w, "  rsakey unwrap [--pem] [--mode lenient|strict] <spki>")
	fmt.Fprintln(w, "  rsakey pub [--pem] [--mode lenient|strict] <pkcs1-private>")
	fmt.Fprintln(w, "  rsakey id <file>")
	fmt.Fprintln(w, "  rsakey fetch --target <host:port> [--pem] <key-id>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - <file> may be \"-\" for stdin")
	fmt.Fprintln(w, "  - key inputs may be DER or PEM; PEM must carry the label for that key form")
	fmt.Fprintln(w, "    (RSA PUBLIC KEY, PUBLIC KEY or RSA PRIVATE KEY)")
	fmt.Fprintln(w, "  - DER output is written as raw bytes; --pem armors it instead")
	fmt.Fprintln(w, "  - id prints the CIDv1 (raw, sha2-256) of the DER bytes")
}

func cmdPEM(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: rsakey pem <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: encode, decode")
		return 2
	}
	switch args[0] {
	case "encode":
		fs := flag.NewFlagSet("pem encode", flag.ContinueOnError)
		fs.SetOutput(errOut)
		label := fs.String("label", armor.DefaultLabel, "PEM label")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(errOut, "usage: rsakey pem encode [--label <label>] <file>")
			return 2
		}
		der, err := readFile(fs.Arg(0), in)
		if err != nil {
			fmt.Fprintf(errOut, "read input: %v\n", err)
			return 1
		}
		_, _ = io.WriteString(out, armor.DERToPEM(der, *label))
		return 0
	case "decode":
		fs := flag.NewFlagSet("pem decode", flag.ContinueOnError)
		fs.SetOutput(errOut)
		label := fs.String("label", armor.DefaultLabel, "PEM label")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(errOut, "usage: rsakey pem decode [--label <label>] <file>")
			return 2
		}
		b, err := readFile(fs.Arg(0), in)
		if err != nil {
			fmt.Fprintf(errOut, "read input: %v\n", err)
			return 1
		}
		der, err := armor.PEMToDER(string(b), *label)
		if err != nil {
			return fail(errOut, "decode pem", err)
		}
		_, _ = out.Write(der)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown pem subcommand: %s\n", args[0])
		return 2
	}
}

func cmdWrap(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("wrap", flag.ContinueOnError)
	fs.SetOutput(errOut)
	asPEM := fs.Bool("pem", false, "Armor the output as PUBLIC KEY")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: rsakey wrap [--pem] <pkcs1-public>")
		return 2
	}
	pub, err := readKey(fs.Arg(0), armor.LabelRSAPublicKey, in)
	if err != nil {
		return fail(errOut, "read input", err)
	}
	writeKey(out, keys.WrapPublicKey(pub), armor.LabelPublicKey, *asPEM)
	return 0
}

func cmdUnwrap(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("unwrap", flag.ContinueOnError)
	fs.SetOutput(errOut)
	asPEM := fs.Bool("pem", false, "Armor the output as RSA PUBLIC KEY")
	mode := fs.String("mode", "lenient", "Compliance mode: lenient or strict")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: rsakey unwrap [--pem] [--mode lenient|strict] <spki>")
		return 2
	}
	m, err := compliance.ParseMode(*mode)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --mode: %v\n", err)
		return 2
	}
	spki, err := readKey(fs.Arg(0), armor.LabelPublicKey, in)
	if err != nil {
		return fail(errOut, "read input", err)
	}
	pub, err := keys.UnwrapPublicKeyWithOptions(spki, keys.Options{Mode: m})
	if err != nil {
		return fail(errOut, "unwrap", err)
	}
	writeKey(out, pub, armor.LabelRSAPublicKey, *asPEM)
	return 0
}

func cmdPub(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("pub", flag.ContinueOnError)
	fs.SetOutput(errOut)
	asPEM := fs.Bool("pem", false, "Armor the output as PUBLIC KEY")
	mode := fs.String("mode", "lenient", "Compliance mode: lenient or strict")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: rsakey pub [--pem] [--mode lenient|strict] <pkcs1-private>")
		return 2
	}
	m, err := compliance.ParseMode(*mode)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --mode: %v\n", err)
		return 2
	}
	priv, err := readKey(fs.Arg(0), armor.LabelRSAPrivateKey, in)
	if err != nil {
		return fail(errOut, "read input", err)
	}
	spki, err := keys.PrivateToPublicWithOptions(priv, keys.Options{Mode: m})
	if err != nil {
		return fail(errOut, "derive public key", err)
	}
	writeKey(out, spki, armor.LabelPublicKey, *asPEM)
	return 0
}

func cmdID(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("id", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: rsakey id <file>")
		return 2
	}
	b, err := readFile(fs.Arg(0), in)
	if err != nil {
		fmt.Fprintf(errOut, "read input: %v\n", err)
		return 1
	}
	if label, ok := pemLabel(b); ok {
		b, err = armor.PEMToDER(string(b), label)
		if err != nil {
			return fail(errOut, "decode pem", err)
		}
	}
	_, _ = fmt.Fprintln(out, cidutil.KeyIDString(b))
	return 0
}

func cmdFetch(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	fs.SetOutput(errOut)
	target := fs.String("target", "", "rsakeyd address host:port")
	timeout := fs.Duration("timeout", 10*time.Second, "Per-RPC timeout")
	asPEM := fs.Bool("pem", false, "Armor the output as PUBLIC KEY")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *target == "" || fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: rsakey fetch --target <host:port> [--pem] <key-id>")
		return 2
	}
	id, err := cidutil.ParseKeyID(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "invalid key id: %v\n", err)
		return 2
	}
	client, err := convsvc.Dial(*target, convsvc.DialOptions{Timeout: *timeout})
	if err != nil {
		fmt.Fprintf(errOut, "dial: %v\n", err)
		return 1
	}
	defer client.Close()
	client.Timeout = *timeout

	spki, err := client.Fetch(id)
	if err != nil {
		return fail(errOut, "fetch", err)
	}
	writeKey(out, spki, armor.LabelPublicKey, *asPEM)
	return 0
}

// fail reports err and returns exit status 1. Structured errors carry their
// rule ID so scripts can match on it.
func fail(errOut io.Writer, what string, err error) int {
	if id := keyerr.RuleID(err); id != "" {
		fmt.Fprintf(errOut, "%s: %v [%s]\n", what, err, id)
		return 1
	}
	fmt.Fprintf(errOut, "%s: %v\n", what, err)
	return 1
}

func readFile(path string, in io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(in)
	}
	return os.ReadFile(path)
}

// readKey reads DER, or PEM with the given label.
func readKey(path, label string, in io.Reader) ([]byte, error) {
	b, err := readFile(path, in)
	if err != nil {
		return nil, err
	}
	if _, ok := pemLabel(b); !ok {
		return b, nil
	}
	return armor.PEMToDER(string(b), label)
}

// pemLabel reports the label of a PEM header line at the start of b.
func pemLabel(b []byte) (string, bool) {
	const prefix, suffix = "-----BEGIN ", "-----"
	if !bytes.HasPrefix(b, []byte(prefix)) {
		return "", false
	}
	line := b[len(prefix):]
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	// CRLF documents still count as PEM so the codec can reject them.
	line = bytes.TrimSuffix(line, []byte("\r"))
	if !bytes.HasSuffix(line, []byte(suffix)) {
		return "", false
	}
	return string(line[:len(line)-len(suffix)]), true
}

func writeKey(out io.Writer, der []byte, label string, asPEM bool) {
	if asPEM {
		_, _ = io.WriteString(out, armor.DERToPEM(der, label))
		return
	}
	_, _ = out.Write(der)
}
