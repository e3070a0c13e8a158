package messages

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sangkips/template-dispatch-service/internal/domains/recipients"
	"github.com/sangkips/template-dispatch-service/internal/domains/templates"
	"github.com/sangkips/template-dispatch-service/internal/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock Transport
type mockTransport struct {
	sendError error
	sent      []sentMail
}

type sentMail struct {
	addresses []string
	content   string
}

func (m *mockTransport) Send(ctx context.Context, addresses []string, content string) error {
	m.sent = append(m.sent, sentMail{addresses: addresses, content: content})
	return m.sendError
}

var _ MailTransport = (*mockTransport)(nil)

// Stub renderer returning a fixed message and recording what it saw
type stubRenderer struct {
	result    string
	err       error
	calls     int
	lastInput string
	inputNull bool
}

func (s *stubRenderer) Render(t *templates.Template) (string, error) {
	s.calls++
	v := t.Bindings()[InputKey]
	s.lastInput = v.String
	s.inputNull = !v.Valid
	return s.result, s.err
}

var _ templates.Renderer = (*stubRenderer)(nil)

// failingReader simulates a broken console stream
type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("stream broken")
}

// failingWriter simulates a closed console stream
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("stream closed")
}

func writeInput(t *testing.T, content string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "input.txt")
	out := filepath.Join(dir, "output.txt")
	require.NoError(t, os.WriteFile(in, []byte(content), 0644))
	return in, out
}

// Test: file mode writes exactly the rendered text and mails it
func TestMessenger_Send_FileMode(t *testing.T) {
	testlog.Track(t, testlog.FromEnv())
	ctx := context.Background()

	in, out := writeInput(t, "Test input")
	transport := &mockTransport{}
	renderer := &stubRenderer{result: "Generated message"}
	client := recipients.NewClient("john@example.com", "jane@example.com")

	m := NewMessenger(transport, renderer)
	m.SetIOFiles(in, out)
	require.Equal(t, ModeFile, m.Mode())

	content, err := m.Send(ctx, client, templates.New("Test template"))
	require.NoError(t, err)
	assert.Equal(t, "Generated message", content)

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Generated message", string(written))

	assert.Equal(t, "Test input", renderer.lastInput)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, client.Addresses(), transport.sent[0].addresses)
	assert.Equal(t, "Generated message", transport.sent[0].content)
}

// Test: file mode trims trailing newlines but keeps inner ones
func TestMessenger_Send_FileModeTrimsTrailingNewline(t *testing.T) {
	testlog.Track(t, testlog.FromEnv())

	in, out := writeInput(t, "line one\nline two\r\n\n")
	transport := &mockTransport{}
	m := NewMessenger(transport, templates.NewEngine(), WithIOFiles(in, out))

	content, err := m.Send(context.Background(), recipients.NewClient("a@example.com"), templates.New("[#{input}]"))
	require.NoError(t, err)
	assert.Equal(t, "[line one\nline two]", content)

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "[line one\nline two]", string(written), "no newline is appended to the output file")
}

// Test: file mode overwrites an existing output file
func TestMessenger_Send_FileModeOverwritesOutput(t *testing.T) {
	in, out := writeInput(t, "new")
	require.NoError(t, os.WriteFile(out, []byte("old content that is longer"), 0644))

	m := NewMessenger(&mockTransport{}, templates.NewEngine(), WithIOFiles(in, out))
	_, err := m.Send(context.Background(), recipients.NewClient(), templates.New("#{input}"))
	require.NoError(t, err)

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "new", string(written))
}

// Test: console mode reads one line and prints the rendered text with a newline
func TestMessenger_Send_ConsoleMode(t *testing.T) {
	testlog.Track(t, testlog.FromEnv())

	stdin := strings.NewReader("Test input")
	var stdout bytes.Buffer
	transport := &mockTransport{}
	renderer := &stubRenderer{result: "Generated message"}
	client := recipients.NewClient("john@example.com")

	m := NewMessenger(transport, renderer, WithConsole(stdin, &stdout))
	require.Equal(t, ModeConsole, m.Mode())

	content, err := m.Send(context.Background(), client, templates.New("Test template"))
	require.NoError(t, err)

	assert.Equal(t, "Generated message\n", stdout.String())
	assert.Equal(t, "Test input", renderer.lastInput)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, content, transport.sent[0].content)
	assert.Equal(t, []string{"john@example.com"}, transport.sent[0].addresses)
}

// Test: console mode only consumes the first line
func TestMessenger_Send_ConsoleModeFirstLineOnly(t *testing.T) {
	stdin := strings.NewReader("first line\r\nsecond line\n")
	var stdout bytes.Buffer

	m := NewMessenger(&mockTransport{}, templates.NewEngine(), WithConsole(stdin, &stdout))
	content, err := m.Send(context.Background(), recipients.NewClient(), templates.New("Got: #{input}"))
	require.NoError(t, err)
	assert.Equal(t, "Got: first line", content)
	assert.Equal(t, "Got: first line\n", stdout.String())
}

// Test: empty console input binds null, which the strict engine rejects
func TestMessenger_Send_ConsoleModeEmptyInput(t *testing.T) {
	transport := &mockTransport{}
	var stdout bytes.Buffer

	renderer := &stubRenderer{result: "ok"}
	m := NewMessenger(transport, renderer, WithConsole(strings.NewReader(""), &stdout))
	_, err := m.Send(context.Background(), recipients.NewClient(), templates.New("x"))
	require.NoError(t, err)
	assert.True(t, renderer.inputNull)

	m = NewMessenger(transport, templates.NewEngine(), WithConsole(strings.NewReader(""), &stdout))
	_, err = m.Send(context.Background(), recipients.NewClient(), templates.New("Got: #{input}"))
	require.ErrorIs(t, err, templates.ErrNullValue)
}

// Test: only one of the two paths set means console mode
func TestMessenger_Mode(t *testing.T) {
	m := NewMessenger(&mockTransport{}, templates.NewEngine())
	assert.Equal(t, ModeConsole, m.Mode())

	m.SetIOFiles("in.txt", "")
	assert.Equal(t, ModeConsole, m.Mode())

	m.SetIOFiles("", "out.txt")
	assert.Equal(t, ModeConsole, m.Mode())

	m.SetIOFiles("in.txt", "out.txt")
	assert.Equal(t, ModeFile, m.Mode())
}

// Test: the real engine end to end in file mode
func TestMessenger_Send_RendersWithEngine(t *testing.T) {
	testlog.Track(t, testlog.FromEnv())

	in, out := writeInput(t, "José\n")
	transport := &mockTransport{}
	m := NewMessenger(transport, templates.NewEngine(), WithIOFiles(in, out))

	tmpl := templates.New("Hello #{name}, you wrote: #{input}")
	tmpl.AddBinding("name", "Ada")

	content, err := m.Send(context.Background(), recipients.NewClient("ada@example.com"), tmpl)
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada, you wrote: José", content)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, content, transport.sent[0].content)
}

// Test: missing input file is an I/O error and nothing is sent
func TestMessenger_Send_MissingInputFile(t *testing.T) {
	testlog.Track(t, testlog.FromEnv())

	dir := t.TempDir()
	transport := &mockTransport{}
	renderer := &stubRenderer{result: "unused"}
	m := NewMessenger(transport, renderer, WithIOFiles(filepath.Join(dir, "missing.txt"), filepath.Join(dir, "out.txt")))

	_, err := m.Send(context.Background(), recipients.NewClient("a@example.com"), templates.New("x"))
	require.ErrorIs(t, err, ErrIO)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 0, renderer.calls)
	assert.Empty(t, transport.sent)
}

// Test: unwritable output is an I/O error and nothing is sent
func TestMessenger_Send_UnwritableOutput(t *testing.T) {
	in, _ := writeInput(t, "data")
	out := filepath.Join(t.TempDir(), "no-such-dir", "out.txt")
	transport := &mockTransport{}

	m := NewMessenger(transport, &stubRenderer{result: "x"}, WithIOFiles(in, out))
	_, err := m.Send(context.Background(), recipients.NewClient(), templates.New("x"))
	require.ErrorIs(t, err, ErrIO)
	assert.Empty(t, transport.sent)
}

// Test: console read and write failures are I/O errors
func TestMessenger_Send_ConsoleFailures(t *testing.T) {
	transport := &mockTransport{}

	m := NewMessenger(transport, &stubRenderer{result: "x"}, WithConsole(failingReader{}, &bytes.Buffer{}))
	_, err := m.Send(context.Background(), recipients.NewClient(), templates.New("x"))
	require.ErrorIs(t, err, ErrIO)

	m = NewMessenger(transport, &stubRenderer{result: "x"}, WithConsole(strings.NewReader("in\n"), failingWriter{}))
	_, err = m.Send(context.Background(), recipients.NewClient(), templates.New("x"))
	require.ErrorIs(t, err, ErrIO)

	assert.Empty(t, transport.sent)
}

// Test: render errors propagate unchanged and stop the dispatch before output
func TestMessenger_Send_RenderError(t *testing.T) {
	testlog.Track(t, testlog.FromEnv())

	in, out := writeInput(t, "input")
	transport := &mockTransport{}
	m := NewMessenger(transport, templates.NewEngine(), WithIOFiles(in, out))

	_, err := m.Send(context.Background(), recipients.NewClient(), templates.New("#{input} #{orderId}"))
	require.ErrorIs(t, err, templates.ErrMissingValue)
	assert.False(t, errors.Is(err, ErrIO))
	assert.Contains(t, err.Error(), "orderId")

	_, statErr := os.Stat(out)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "no output is written on render failure")
	assert.Empty(t, transport.sent)
}

// Test: transport failures are surfaced to the caller without retry
func TestMessenger_Send_TransportFailure(t *testing.T) {
	testlog.Track(t, testlog.FromEnv())

	providerErr := errors.New("provider error: connection refused")
	transport := &mockTransport{sendError: providerErr}
	var stdout bytes.Buffer

	m := NewMessenger(transport, &stubRenderer{result: "msg"}, WithConsole(strings.NewReader("x\n"), &stdout))
	_, err := m.Send(context.Background(), recipients.NewClient("a@example.com"), templates.New("x"))

	require.ErrorIs(t, err, ErrSendFailed)
	require.ErrorIs(t, err, providerErr)
	assert.Len(t, transport.sent, 1, "send must not be retried")
	assert.Equal(t, "msg\n", stdout.String(), "output is written before mailing")
}
