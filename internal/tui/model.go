package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	applog "faqbot/internal/logger"
	"faqbot/internal/matcher"
	"faqbot/internal/service"
	"faqbot/internal/session"
	"faqbot/internal/speech"
	"faqbot/internal/transcript"
)

// ChatPort is the TUI-facing subset of the chat service.
type ChatPort interface {
	Match(text string) matcher.Result
	Info() service.Info
}

// CapturePort records and transcribes one chunk of speech.
type CapturePort interface {
	Capture(ctx context.Context, language string) (string, error)
}

// Options wires the model. Capturer and Sink may be nil, which disables
// voice input and saving respectively.
type Options struct {
	Service  ChatPort
	Session  *session.Session
	Capturer CapturePort
	Sink     transcript.Sink
	Logger   *slog.Logger
}

type captureResultMsg struct {
	gen  int
	text string
	err  error
}

type savedMsg struct {
	location string
	err      error
}

// voiceLoop is shared by every copy of the model so a cancelled capture can
// be recognised when its result finally arrives.
type voiceLoop struct {
	gen    int
	cancel context.CancelFunc
}

func (v *voiceLoop) stop() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.gen++
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	service  ChatPort
	session  *session.Session
	capturer CapturePort
	sink     transcript.Sink
	logger   *slog.Logger
	voice    *voiceLoop
	input    textinput.Model
	viewport viewport.Model
	status   string
	ready    bool
}

// New creates a new TUI model instance.
func New(opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type your message and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)

	sess := opts.Session
	if sess == nil {
		sess = session.New(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = applog.Discard()
	}
	status := "Ready. Type to chat."
	if opts.Capturer != nil {
		status = "Ready. Type to chat or press ctrl+r to talk."
	}
	return Model{
		service:  opts.Service,
		session:  sess,
		capturer: opts.Capturer,
		sink:     opts.Sink,
		logger:   logger.With("component", "tui"),
		voice:    &voiceLoop{},
		input:    ti,
		viewport: vp,
		status:   status,
	}
}

// Session returns the session the model writes to.
func (m Model) Session() *session.Session { return m.session }

// Status returns the current status line text.
func (m Model) Status() string { return m.status }

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and capture events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around history and input boxes
		_, hh := historyBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		totalHeaderLines := 2 // title + corpus info
		totalFooterLines := 1 // status
		reserved := totalHeaderLines + totalFooterLines + ih + 1
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-hh)
		m.refresh()
		return m, nil
	case captureResultMsg:
		return m.handleCapture(msg)
	case savedMsg:
		if msg.err != nil {
			m.status = "Could not save transcript: " + msg.err.Error()
			m.logger.Warn("save transcript failed", "error", msg.err)
		} else {
			m.status = "Saved to " + msg.location
		}
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			m.voice.stop()
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				m.status = m.service.Match("").Text
				return m, nil
			}
			m.input.SetValue("")
			m.respond(text)
			return m, nil
		case "ctrl+r":
			return m.startListening()
		case "ctrl+p":
			if err := m.session.Pause(); err != nil {
				m.status = "Not listening."
				return m, nil
			}
			m.voice.stop()
			m.status = "Paused. Press ctrl+r to resume."
			return m, nil
		case "ctrl+x":
			if err := m.session.Stop(); err != nil {
				m.status = "Not listening."
				return m, nil
			}
			m.voice.stop()
			m.status = "Stopped."
			return m, nil
		case "ctrl+s":
			return m, m.save()
		case "ctrl+l":
			lang := speech.NextLanguage(m.session.Language)
			m.session.Language = lang.Code
			m.status = "Language: " + lang.Label
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) respond(text string) {
	res := m.service.Match(text)
	m.session.AddExchange(text, res.Text)
	switch res.Outcome {
	case matcher.OutcomeMatched:
		m.status = fmt.Sprintf("Matched item %d  score=%.3f", res.Index+1, res.Score)
	default:
		m.status = fmt.Sprintf("No confident match  score=%.3f", res.Score)
	}
	m.refresh()
}

func (m Model) startListening() (tea.Model, tea.Cmd) {
	if m.capturer == nil {
		m.status = "Voice input is disabled. Set speech.type in the config."
		return m, nil
	}
	var err error
	if m.session.Capture == session.CapturePaused {
		err = m.session.Resume()
	} else {
		err = m.session.Start()
	}
	if err != nil {
		m.status = "Already listening."
		return m, nil
	}
	m.status = "Listening… Language: " + m.languageLabel()
	return m, m.listen()
}

// listen schedules one capture chunk. The result comes back as a
// captureResultMsg tagged with the loop generation at scheduling time.
func (m Model) listen() tea.Cmd {
	if m.voice.cancel != nil {
		m.voice.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.voice.cancel = cancel
	m.voice.gen++
	gen := m.voice.gen
	capturer := m.capturer
	language := m.session.Language
	return func() tea.Msg {
		text, err := capturer.Capture(ctx, language)
		return captureResultMsg{gen: gen, text: text, err: err}
	}
}

func (m Model) handleCapture(msg captureResultMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.voice.gen || !m.session.Listening() {
		return m, nil
	}
	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return m, nil
		}
		m.status = speech.UserMessage(msg.err)
		m.logger.Debug("capture failed", "kind", speech.KindOf(msg.err), "error", msg.err)
		if speech.KindOf(msg.err) == speech.KindTimeout {
			return m, m.listen()
		}
		_ = m.session.Pause()
		m.voice.stop()
		m.status += " (paused, ctrl+r to resume)"
		return m, nil
	}
	text := strings.TrimSpace(msg.text)
	if text != "" {
		m.session.AppendTranscript(text)
		m.respond(text)
		m.status = "Heard: " + text
	}
	return m, m.listen()
}

func (m Model) save() tea.Cmd {
	if m.sink == nil {
		return func() tea.Msg { return savedMsg{err: errors.New("no transcript store configured")} }
	}
	sink := m.sink
	snapshot := *m.session
	snapshot.History = append([]session.Message(nil), m.session.History...)
	return func() tea.Msg {
		loc, err := sink.Save(context.Background(), &snapshot)
		return savedMsg{location: loc, err: err}
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("FAQ Bot")
	info := infoStyle.Render(m.renderInfo())
	history := historyBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.renderStatus())
	return header + "\n" + info + "\n" + history + "\n" + input + "\n" + status
}

func (m Model) renderInfo() string {
	info := m.service.Info()
	line := fmt.Sprintf("%s · %d %s", info.Source, info.Items, itemNoun(info.Mode))
	if len(info.Keywords) > 0 {
		line += " · topics: " + strings.Join(info.Keywords, ", ")
	}
	return line
}

func (m Model) renderStatus() string {
	state := string(m.session.Capture)
	if state == "" {
		state = string(session.CaptureIdle)
	}
	return fmt.Sprintf("[%s · %s] %s", state, m.languageLabel(), m.status)
}

func (m Model) renderHistory() string {
	recent := m.session.Recent()
	if len(recent) == 0 {
		return "No messages yet."
	}
	lines := make([]string, 0, len(recent))
	for _, msg := range recent {
		if msg.Role == session.RoleUser {
			lines = append(lines, userStyle.Render("You: ")+msg.Text)
		} else {
			lines = append(lines, botStyle.Render("Bot: ")+msg.Text)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) languageLabel() string {
	if l, ok := speech.LookupLanguage(m.session.Language); ok {
		return l.Label
	}
	if m.session.Language == "" {
		return "auto"
	}
	return m.session.Language
}

func itemNoun(mode matcher.Mode) string {
	if mode == matcher.ModeQA {
		return "questions"
	}
	return "sentences"
}

var (
	historyBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	infoStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)
