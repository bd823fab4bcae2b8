package parser

import (
	"io"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"

	"github.com/cockroachdb/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokLong
	tokFloat
	tokDouble
	tokChar
	tokString
	// tokOp is any operator or separator; its text is the token.
	tokOp
)

var tokenKindNames = map[tokenKind]string{
	tokEOF:    "end of file",
	tokIdent:  "identifier",
	tokInt:    "int literal",
	tokLong:   "long literal",
	tokFloat:  "float literal",
	tokDouble: "double literal",
	tokChar:   "char literal",
	tokString: "string literal",
}

func (k tokenKind) name() string {
	if n, ok := tokenKindNames[k]; ok {
		return n
	}
	return "operator"
}

type token struct {
	kind tokenKind
	text string
	pos  scanner.Position
	val  interface{}
}

func (t token) String() string {
	switch t.kind {
	case tokOp:
		return strconv.Quote(t.text)
	case tokIdent:
		if keywords[t.text] {
			return strconv.Quote(t.text)
		}
		return "identifier " + t.text
	default:
		return tokenKindNames[t.kind]
	}
}

var keywords = map[string]bool{}

func init() {
	for _, k := range strings.Fields(`abstract assert boolean break byte case catch
		char class const continue default do double else enum extends final
		finally float for goto if implements import instanceof int interface long
		native new package private protected public return short static strictfp
		super switch synchronized this throw throws transient try void volatile
		while true false null`) {
		keywords[k] = true
	}
}

// operators that can continue with another character, mapped to the
// characters that extend them
var compoundOps = map[string]string{
	"=":  "=",
	"!":  "=",
	"<":  "<=",
	"<<": "=",
	"+":  "+=",
	"-":  "-=",
	"*":  "=",
	"/":  "=",
	"%":  "=",
	"&":  "&=",
	"|":  "|=",
	"^":  "=",
	".":  ".",
	"..": ".",
}

// javaLex splits Java source into tokens. Greater-than signs are always
// returned one at a time, so that the parser can close nested type argument
// lists; shift operators are reassembled from adjacent tokens.
type javaLex struct {
	s   scanner.Scanner
	err error
}

func newLexer(filename string, r io.Reader) *javaLex {
	var l javaLex
	l.s.Init(r)
	l.s.Filename = filename
	l.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats |
		scanner.ScanChars | scanner.ScanStrings | scanner.ScanComments | scanner.SkipComments
	l.s.IsIdentRune = func(ch rune, i int) bool {
		return ch == '$' || ch == '_' || unicode.IsLetter(ch) || (i > 0 && unicode.IsDigit(ch))
	}
	l.s.Error = func(s *scanner.Scanner, msg string) {
		// Java escapes differ from Go's; literals are unescaped below
		if msg == "invalid char escape" {
			return
		}
		if l.err == nil {
			l.err = &ParseError{err: errors.New(msg), pos: s.Position}
		}
	}
	return &l
}

func (l *javaLex) all() ([]token, error) {
	var toks []token
	for {
		t := l.next()
		if l.err != nil {
			return nil, l.err
		}
		toks = append(toks, t)
		if t.kind == tokEOF {
			return toks, nil
		}
	}
}

func (l *javaLex) next() token {
	r := l.s.Scan()
	// the scanner's Position is the start of the token just scanned
	t := token{text: l.s.TokenText(), pos: l.s.Position}
	switch r {
	case scanner.EOF:
		t.kind = tokEOF
		t.pos = l.s.Pos()
	case scanner.Ident:
		t.kind = tokIdent
	case scanner.Int:
		t.kind = tokInt
		if p := l.s.Peek(); p == 'L' || p == 'l' {
			l.s.Next()
			t.kind = tokLong
		} else if p == 'f' || p == 'F' || p == 'd' || p == 'D' {
			return l.float(t)
		}
		v, err := strconv.ParseInt(t.text, 0, 64)
		if err != nil {
			l.fail(t, err)
		}
		if t.kind == tokInt {
			t.val = int(v)
		} else {
			t.val = v
		}
	case scanner.Float:
		return l.float(t)
	case scanner.Char:
		v, err := unescape(t.text)
		if err != nil {
			l.fail(t, err)
		}
		rs := []rune(v)
		if len(rs) != 1 {
			l.fail(t, errors.Newf("invalid char literal %s", t.text))
			rs = []rune{0}
		}
		t.kind = tokChar
		t.val = rs[0]
	case scanner.String:
		v, err := unescape(t.text)
		if err != nil {
			l.fail(t, err)
		}
		t.kind = tokString
		t.val = v
	default:
		t.kind = tokOp
		t.text = string(r)
		for {
			ext, ok := compoundOps[t.text]
			if !ok || !strings.ContainsRune(ext, l.s.Peek()) {
				break
			}
			t.text += string(l.s.Next())
		}
		if t.text == ".." {
			l.fail(t, errors.New(`unexpected ".."`))
		}
	}
	return t
}

func (l *javaLex) float(t token) token {
	text := t.text
	single := false
	switch p := l.s.Peek(); p {
	case 'f', 'F':
		l.s.Next()
		single = true
	case 'd', 'D':
		l.s.Next()
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		l.fail(t, err)
	}
	if single {
		t.kind = tokFloat
		t.val = float32(v)
	} else {
		t.kind = tokDouble
		t.val = v
	}
	return t
}

func (l *javaLex) fail(t token, err error) {
	if l.err == nil {
		l.err = &ParseError{err: err, pos: t.pos}
	}
}

// unescape removes the quotes around a Java char or string literal and
// resolves its escape sequences.
func unescape(lit string) (string, error) {
	body := lit[1 : len(lit)-1]
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i == len(body) {
			return "", errors.Newf("unterminated escape in %s", lit)
		}
		switch e := body[i]; e {
		case 'b':
			sb.WriteByte('\b')
		case 't':
			sb.WriteByte('\t')
		case 'n':
			sb.WriteByte('\n')
		case 'f':
			sb.WriteByte('\f')
		case 'r':
			sb.WriteByte('\r')
		case '"', '\'', '\\':
			sb.WriteByte(e)
		case 'u':
			for i+1 < len(body) && body[i+1] == 'u' {
				i++
			}
			if i+5 > len(body) {
				return "", errors.Newf("invalid unicode escape in %s", lit)
			}
			v, err := strconv.ParseUint(body[i+1:i+5], 16, 16)
			if err != nil {
				return "", errors.Wrapf(err, "invalid unicode escape in %s", lit)
			}
			sb.WriteRune(rune(v))
			i += 4
		default:
			if e < '0' || e > '7' {
				return "", errors.Newf("invalid escape \\%c in %s", e, lit)
			}
			// octal: up to three digits, at most \377
			max := 3
			if e > '3' {
				max = 2
			}
			j := i
			for j < len(body) && j-i < max && body[j] >= '0' && body[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(body[i:j], 8, 8)
			sb.WriteRune(rune(v))
			i = j - 1
		}
	}
	return sb.String(), nil
}
