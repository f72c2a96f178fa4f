package result

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// ParseError represents a parsing error with location info.
type ParseError struct {
	Path    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ParseFile parses a Robot Framework output.xml file.
func ParseFile(path string) (*Suite, error) {
	f, err := os.Open(path) //#nosec G304 -- path is user-provided result file
	if err != nil {
		return nil, fmt.Errorf("failed to open result file: %w", err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse parses Robot Framework output.xml content. The returned tree is
// read-only input for the report builder; nothing downstream mutates it.
func Parse(r io.Reader, sourcePath string) (*Suite, error) {
	d := xml.NewDecoder(r)

	root, err := findRootSuite(d)
	if err != nil {
		return nil, wrapParseError(err, sourcePath)
	}

	suite, err := parseSuite(d, root)
	if err != nil {
		return nil, wrapParseError(err, sourcePath)
	}
	return &suite, nil
}

func wrapParseError(err error, path string) error {
	if pe, ok := err.(*ParseError); ok {
		pe.Path = path
		return pe
	}
	if se, ok := err.(*xml.SyntaxError); ok {
		return &ParseError{Path: path, Line: se.Line, Message: se.Msg}
	}
	return &ParseError{Path: path, Message: err.Error()}
}

// findRootSuite advances the decoder past the <robot> element to the first
// <suite> element. Anything else at the document root is a fatal error.
func findRootSuite(d *xml.Decoder) (xml.StartElement, error) {
	sawRobot := false
	for {
		tok, err := d.Token()
		if err == io.EOF {
			if !sawRobot {
				return xml.StartElement{}, &ParseError{Message: "not a Robot Framework result file"}
			}
			return xml.StartElement{}, &ParseError{Message: "result file contains no suite"}
		}
		if err != nil {
			return xml.StartElement{}, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "robot":
			sawRobot = true
		case "suite":
			if !sawRobot {
				return xml.StartElement{}, &ParseError{Message: "not a Robot Framework result file"}
			}
			return start, nil
		case "statistics", "errors":
			if err := d.Skip(); err != nil {
				return xml.StartElement{}, err
			}
		default:
			if !sawRobot {
				return xml.StartElement{}, &ParseError{
					Message: fmt.Sprintf("unexpected root element <%s>", start.Name.Local),
				}
			}
			if err := d.Skip(); err != nil {
				return xml.StartElement{}, err
			}
		}
	}
}

func parseSuite(d *xml.Decoder, start xml.StartElement) (Suite, error) {
	suite := Suite{
		ID:     attr(start, "id"),
		Name:   attr(start, "name"),
		Source: attr(start, "source"),
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return suite, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "suite":
				child, err := parseSuite(d, t)
				if err != nil {
					return suite, err
				}
				suite.Suites = append(suite.Suites, child)
			case "test":
				test, err := parseTest(d, t)
				if err != nil {
					return suite, err
				}
				suite.Tests = append(suite.Tests, test)
			case "kw":
				// Suites only carry fixture keywords; anything else is
				// dropped rather than treated as an error.
				switch attr(t, "type") {
				case "SETUP":
					step, err := parseStep(d, t)
					if err != nil {
						return suite, err
					}
					suite.Setup = &step
				case "TEARDOWN":
					step, err := parseStep(d, t)
					if err != nil {
						return suite, err
					}
					suite.Teardown = &step
				default:
					if err := d.Skip(); err != nil {
						return suite, err
					}
				}
			case "status":
				suite.Status = Status(attr(t, "status"))
				if err := d.Skip(); err != nil {
					return suite, err
				}
			default:
				if err := d.Skip(); err != nil {
					return suite, err
				}
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return suite, nil
			}
		}
	}
}

func parseTest(d *xml.Decoder, start xml.StartElement) (Test, error) {
	test := Test{
		ID:   attr(start, "id"),
		Name: attr(start, "name"),
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return test, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "kw" && attr(t, "type") == "SETUP":
				step, err := parseStep(d, t)
				if err != nil {
					return test, err
				}
				test.Setup = &step
			case t.Name.Local == "kw" && attr(t, "type") == "TEARDOWN":
				step, err := parseStep(d, t)
				if err != nil {
					return test, err
				}
				test.Teardown = &step
			case isStepElement(t.Name.Local):
				step, err := parseStep(d, t)
				if err != nil {
					return test, err
				}
				test.Body = append(test.Body, step)
			case t.Name.Local == "status":
				test.Status = Status(attr(t, "status"))
				if err := d.Skip(); err != nil {
					return test, err
				}
			default:
				if err := d.Skip(); err != nil {
					return test, err
				}
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return test, nil
			}
		}
	}
}

func parseStep(d *xml.Decoder, start xml.StartElement) (Step, error) {
	step := Step{
		Name: attr(start, "name"),
		Kind: stepKind(start.Name.Local, attr(start, "type")),
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return step, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case isStepElement(t.Name.Local):
				child, err := parseStep(d, t)
				if err != nil {
					return step, err
				}
				step.Body = append(step.Body, child)
			case t.Name.Local == "arg":
				text, err := readText(d, t)
				if err != nil {
					return step, err
				}
				step.Args = append(step.Args, text)
			case t.Name.Local == "tag":
				text, err := readText(d, t)
				if err != nil {
					return step, err
				}
				step.Tags = append(step.Tags, text)
			case t.Name.Local == "status":
				step.Status = Status(attr(t, "status"))
				step.Elapsed = parseElapsed(t)
				if err := d.Skip(); err != nil {
					return step, err
				}
			default:
				// msg, doc, var, timeout, return/break/continue markers
				if err := d.Skip(); err != nil {
					return step, err
				}
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return step, nil
			}
		}
	}
}

// isStepElement reports whether the element tag represents a step node.
// The list is closed on purpose: control-flow transparency is decided by
// tag here, never by matching substrings of display names.
func isStepElement(name string) bool {
	switch name {
	case "kw", "for", "while", "if", "try", "group", "branch", "iter":
		return true
	}
	return false
}

func stepKind(element, typeAttr string) Kind {
	switch element {
	case "for", "while":
		return KindLoop
	case "iter":
		return KindIteration
	case "if", "try", "group", "branch":
		return KindBranch
	}
	switch typeAttr {
	case "SETUP":
		return KindSetup
	case "TEARDOWN":
		return KindTeardown
	}
	return KindKeyword
}

// parseElapsed reads step timing from the status element. Robot Framework 7
// writes elapsed seconds directly; older versions write start/end timestamps.
func parseElapsed(start xml.StartElement) time.Duration {
	if v := attr(start, "elapsed"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil {
			return time.Duration(secs * float64(time.Second))
		}
	}

	const layout = "20060102 15:04:05.000"
	st, et := attr(start, "starttime"), attr(start, "endtime")
	if st != "" && et != "" {
		t1, err1 := time.Parse(layout, st)
		t2, err2 := time.Parse(layout, et)
		if err1 == nil && err2 == nil && t2.After(t1) {
			return t2.Sub(t1)
		}
	}
	return 0
}

func readText(d *xml.Decoder, start xml.StartElement) (string, error) {
	var sb strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			if t.Name == start.Name {
				return sb.String(), nil
			}
		case xml.StartElement:
			if err := d.Skip(); err != nil {
				return "", err
			}
		}
	}
}

func attr(start xml.StartElement, name string) string {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
