package messages

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/template-dispatch-service/internal/domains/templates"
)

// InputKey is the binding that receives the dispatch input
const InputKey = "input"

var (
	// ErrIO wraps any failure reading the input or writing the output.
	ErrIO = errors.New("error processing input/output")

	// ErrSendFailed wraps failures returned by the mail transport.
	ErrSendFailed = errors.New("failed to send message")
)

// MailTransport delivers rendered content to a list of recipients
type MailTransport interface {
	Send(ctx context.Context, addresses []string, content string) error
}

// Recipient supplies the addresses every dispatch is sent to
type Recipient interface {
	Addresses() []string
}

// Mode is the input/output pair a dispatch uses
type Mode string

const (
	ModeFile    Mode = "file"
	ModeConsole Mode = "console"
)

type Messenger struct {
	transport  MailTransport
	renderer   templates.Renderer
	inputFile  string
	outputFile string
	in         io.Reader
	out        io.Writer
}

type Option func(*Messenger)

// WithConsole replaces the standard streams used in console mode
func WithConsole(in io.Reader, out io.Writer) Option {
	return func(m *Messenger) {
		m.in = in
		m.out = out
	}
}

// WithIOFiles switches the messenger to file mode
func WithIOFiles(inputFile, outputFile string) Option {
	return func(m *Messenger) {
		m.SetIOFiles(inputFile, outputFile)
	}
}

func NewMessenger(transport MailTransport, renderer templates.Renderer, opts ...Option) *Messenger {
	m := &Messenger{
		transport: transport,
		renderer:  renderer,
		in:        os.Stdin,
		out:       os.Stdout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetIOFiles sets the input and output files. File mode is used only when
// both are non-empty.
func (m *Messenger) SetIOFiles(inputFile, outputFile string) {
	m.inputFile = inputFile
	m.outputFile = outputFile
}

// Mode reports which input/output pair the next Send will use
func (m *Messenger) Mode() Mode {
	if m.inputFile != "" && m.outputFile != "" {
		return ModeFile
	}
	return ModeConsole
}

// Send reads the input, binds it under InputKey, renders the template, writes
// the result to the output and hands it to the mail transport. It returns the
// rendered content. Failures are not retried.
func (m *Messenger) Send(ctx context.Context, recipient Recipient, tmpl *templates.Template) (string, error) {
	mode := m.Mode()
	log.Debug().Str("mode", string(mode)).Msg("dispatching message")

	var (
		content string
		err     error
	)
	switch mode {
	case ModeFile:
		content, err = m.sendFile(tmpl)
	default:
		content, err = m.sendConsole(tmpl)
	}
	if err != nil {
		return "", err
	}

	addresses := recipient.Addresses()
	if err := m.transport.Send(ctx, addresses, content); err != nil {
		log.Error().Err(err).Int("recipients", len(addresses)).Msg("failed to send message")
		return "", fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	log.Info().Str("mode", string(mode)).Int("recipients", len(addresses)).Msg("message sent")
	return content, nil
}

func (m *Messenger) sendFile(tmpl *templates.Template) (string, error) {
	input, err := readFile(m.inputFile)
	if err != nil {
		return "", err
	}
	tmpl.AddBinding(InputKey, input)

	content, err := m.renderer.Render(tmpl)
	if err != nil {
		return "", err
	}

	if err := writeFile(m.outputFile, content); err != nil {
		return "", err
	}
	return content, nil
}

func (m *Messenger) sendConsole(tmpl *templates.Template) (string, error) {
	line, ok, err := readLine(m.in)
	if err != nil {
		return "", err
	}
	if ok {
		tmpl.AddBinding(InputKey, line)
	} else {
		tmpl.AddNullBinding(InputKey)
	}

	content, err := m.renderer.Render(tmpl)
	if err != nil {
		return "", err
	}

	if _, err := fmt.Fprintln(m.out, content); err != nil {
		return "", fmt.Errorf("%w: write console: %w", ErrIO, err)
	}
	return content, nil
}

// readFile returns the whole file with trailing line terminators removed
func readFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: open input: %w", ErrIO, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("%w: read input %s: %w", ErrIO, path, err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// writeFile replaces the file's contents with content, verbatim
func writeFile(path, content string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create output: %w", ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close output %s: %w", ErrIO, path, cerr)
		}
	}()

	if _, err := io.WriteString(f, content); err != nil {
		return fmt.Errorf("%w: write output %s: %w", ErrIO, path, err)
	}
	return nil
}

// readLine reads one line without its terminator. ok is false when the
// stream is exhausted before any data.
func readLine(r io.Reader) (line string, ok bool, err error) {
	line, err = bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("%w: read console: %w", ErrIO, err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		return "", false, nil
	}
	return strings.TrimRight(line, "\r\n"), true, nil
}
