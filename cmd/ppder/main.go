package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"github.com/ansel1/merry"
	"github.com/gemalto/flume"
	"github.com/gemalto/x509asn"
	"github.com/gemalto/x509asn/der"
	"io"
	"io/ioutil"
	"os"
	"strings"
)

const FormatHex = "hex"
const FormatDER = "der"

var log = flume.New("ppder")

const usage = `ppder - DER pretty printer

Usage:  ppder [options] [input]

Pretty prints ASN.1 DER.  Can read DER as hex or binary, and print it
out as text, raw hex, pretty printed hex, or json.

The input argument should be a hex string.  If not present, input will
be read from standard in.

When reading hex input, any non-hex characters, such as whitespace or
embedded formatting characters, will be ignored.  The 'prettyhex'
output format embeds such characters, but because they are ignored,
'prettyhex' output is still valid 'hex' input.

With -t, each element is decoded as an object of that struct type, like
X509_NAME, name, or 2.5.29.19, and printed as text or json.

Examples:

    ppder 301431123010060355040313094a75616e204c616e67
    ppder -t name 301431123010060355040313094a75616e204c616e67

Output (in 'text' format):

    Sequence (20):
      Set (18):
        Sequence (16):
          ObjectIdentifier (3): 2.5.4.3
          PrintableString (9): "Juan Lang"

prettyhex format:

    30 | 14
      31 | 12
        30 | 10
          06 | 03 | 550403
          13 | 09 | 4a75616e204c616e67

with -t name:

    CN=Juan Lang
`

type options struct {
	inFormat   string
	outFormat  string
	inFile     string
	structType string
	verbose    bool
}

func main() {
	flags := flag.NewFlagSet("ppder", flag.ExitOnError)
	flags.Usage = func() {
		_, _ = fmt.Fprint(flags.Output(), usage+"\n")
		flags.PrintDefaults()
	}

	var opts options
	flags.StringVar(&opts.inFormat, "i", "", "input format: hex|der, defaults to auto detect")
	flags.StringVar(&opts.outFormat, "o", "", "output format: text|hex|prettyhex|json, defaults to text")
	flags.StringVar(&opts.inFile, "f", "", "input file name, defaults to stdin")
	flags.StringVar(&opts.structType, "t", "", "decode as this struct type")
	flags.BoolVar(&opts.verbose, "v", false, "debug logging")
	_ = flags.Parse(os.Args[1:])

	level := flume.InfoLevel
	if opts.verbose {
		level = flume.DebugLevel
	}
	_ = flume.Configure(flume.Config{
		Development:  true,
		DefaultLevel: level,
	})

	in, err := readInput(opts, flags.Arg(0), os.Stdin)
	if err != nil {
		fail("error reading input", err)
	}
	if err := run(opts, in, os.Stdout); err != nil {
		fail("error", err)
	}
}

func readInput(opts options, arg string, stdin io.Reader) ([]byte, error) {
	switch {
	case opts.inFile != "":
		return ioutil.ReadFile(opts.inFile)
	case arg != "":
		return []byte(arg), nil
	}
	return ioutil.ReadAll(stdin)
}

// detectFormat guesses hex if the input is all hex digits, whitespace, and
// the separators prettyhex output uses.
func detectFormat(in []byte) string {
	for _, c := range in {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		case strings.IndexByte(" \t\r\n|:", c) >= 0:
		default:
			return FormatDER
		}
	}
	return FormatHex
}

func parseHex(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
			return r
		}
		return -1
	}, s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, merry.Prepend(err, "invalid hex input")
	}
	return b, nil
}

func run(opts options, in []byte, w io.Writer) error {
	inFormat := strings.ToLower(opts.inFormat)
	if inFormat == "" {
		inFormat = detectFormat(in)
	}
	outFormat := strings.ToLower(opts.outFormat)
	if outFormat == "" {
		outFormat = "text"
	}

	printFn := func(raw der.TLV, count int) error {
		return printTLV(w, outFormat, raw, count)
	}
	if opts.structType != "" {
		st, err := x509asn.ParseStructType(opts.structType)
		if err != nil {
			return err
		}
		printFn = func(raw der.TLV, count int) error {
			return printObject(w, outFormat, st, raw, count)
		}
	}

	switch inFormat {
	case FormatHex:
		b, err := parseHex(string(in))
		if err != nil {
			return err
		}
		raw := der.TLV(b)
		for count := 0; len(raw) > 0; count++ {
			if err := printFn(raw, count); err != nil {
				return err
			}
			raw = raw.Next()
		}
	case FormatDER:
		dec := der.NewDecoder(bytes.NewReader(in))
		for count := 0; ; count++ {
			raw, err := dec.NextTLV()
			switch {
			case errors.Is(err, io.EOF):
				return nil
			case err != nil:
				return err
			}
			if err := printFn(raw, count); err != nil {
				return err
			}
		}
	default:
		return merry.New("invalid input format: " + inFormat)
	}
	return nil
}

func printTLV(w io.Writer, outFormat string, raw der.TLV, count int) error {
	if count > 0 {
		_, _ = fmt.Fprintln(w)
	}
	switch outFormat {
	case "text":
		return der.Print(w, "", "  ", raw.Element())
	case "json":
		s, err := json.MarshalIndent(raw.Element(), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, string(s))
		return err
	case FormatHex:
		_, err := fmt.Fprint(w, hex.EncodeToString(raw.Element()))
		return err
	case "prettyhex":
		return der.PrintPrettyHex(w, "", "  ", raw.Element())
	}
	return merry.New("invalid output format: " + outFormat)
}

func printObject(w io.Writer, outFormat string, st x509asn.StructType, raw der.TLV, count int) error {
	v, err := x509asn.DecodeObject(x509asn.X509ASNEncoding, st, raw, 0)
	if err != nil {
		log.Debug("decode failed", "structType", st, "err", merry.Details(err))
		return err
	}
	if count > 0 {
		_, _ = fmt.Fprintln(w)
	}
	switch outFormat {
	case "text":
		_, err = fmt.Fprintf(w, "%v", v)
		return err
	case "json":
		s, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, string(s))
		return err
	}
	return merry.New("invalid output format for objects: " + outFormat)
}

func fail(msg string, err error) {
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, msg+":", err)
	} else {
		_, _ = fmt.Fprintln(os.Stderr, msg)
	}
	os.Exit(1)
}
