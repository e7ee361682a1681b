package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"ieqi-server/client"
	"ieqi-server/entities"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const refreshInterval = 5 * time.Second

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type step int

const (
	stepEnteringAPIKey step = iota
	stepConnecting
	stepDashboard
)

type model struct {
	step         step
	api          *client.Client
	baseURL      string
	apiKey       string
	deviceID     string
	currentInput string
	latest       *entities.Reading
	recent       []entities.Reading
	updatedAt    time.Time
	message      string
	quitting     bool
}

type healthyMsg struct{}
type refreshTickMsg struct{}
type sentMsg struct{ deviceID string }
type readingsMsg struct {
	latest *entities.Reading
	recent []entities.Reading
}
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func initialModel(baseURL, apiKey, deviceID string) model {
	m := model{
		step:     stepEnteringAPIKey,
		baseURL:  baseURL,
		apiKey:   apiKey,
		deviceID: deviceID,
	}
	if apiKey != "" {
		m.step = stepConnecting
		m.api = client.New(baseURL, apiKey, nil)
	}
	return m
}

func (m model) Init() tea.Cmd {
	if m.step == stepConnecting {
		return checkHealth(m.api)
	}
	return nil
}

func tickRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

func checkHealth(api *client.Client) tea.Cmd {
	return func() tea.Msg {
		h, err := api.Health()
		if err != nil {
			return errMsg{fmt.Errorf("service not reachable: %w", err)}
		}
		if h.Status != "healthy" {
			return errMsg{fmt.Errorf("service reports status %q", h.Status)}
		}
		return healthyMsg{}
	}
}

func fetchReadings(api *client.Client) tea.Cmd {
	return func() tea.Msg {
		recent, err := api.Recent()
		if err != nil {
			return errMsg{err}
		}
		latest, err := api.Latest()
		if err != nil && !errors.Is(err, client.ErrNoData) {
			return errMsg{err}
		}
		return readingsMsg{latest: latest, recent: recent}
	}
}

// sendSimulated submits a plausible indoor reading for deviceID.
func sendSimulated(api *client.Client, deviceID string) tea.Cmd {
	return func() tea.Msg {
		in := client.ReadingInput{
			Temperature: 18 + rand.Float64()*8,
			Humidity:    30 + rand.Float64()*40,
			Light:       50 + rand.Float64()*700,
			IEQI:        40 + rand.Float64()*60,
			DeviceID:    deviceID,
		}
		if err := api.Ingest(in); err != nil {
			return errMsg{fmt.Errorf("failed to send reading: %w", err)}
		}
		return sentMsg{deviceID: deviceID}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.step == stepEnteringAPIKey {
			return m.updateInput(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "r":
			if m.step == stepDashboard {
				m.message = "Refreshing..."
				return m, fetchReadings(m.api)
			}
		case "s":
			if m.step == stepDashboard {
				m.message = "Sending simulated reading..."
				return m, sendSimulated(m.api, m.deviceID)
			}
		}

	case healthyMsg:
		m.step = stepDashboard
		m.message = successStyle.Render("✓ Connected to " + m.baseURL)
		return m, tea.Batch(fetchReadings(m.api), tickRefresh())

	case readingsMsg:
		m.latest = msg.latest
		m.recent = msg.recent
		m.updatedAt = time.Now()
		if strings.HasPrefix(m.message, "Refreshing") {
			m.message = ""
		}

	case refreshTickMsg:
		if m.step != stepDashboard {
			return m, nil
		}
		return m, tea.Batch(fetchReadings(m.api), tickRefresh())

	case sentMsg:
		m.message = successStyle.Render("✓ Reading sent for " + msg.deviceID)
		return m, fetchReadings(m.api)

	case errMsg:
		m.message = errorStyle.Render("✗ " + msg.err.Error())
		var apiErr *client.APIError
		if errors.As(msg.err, &apiErr) && apiErr.StatusCode == 401 {
			m.step = stepEnteringAPIKey
			m.apiKey = ""
			return m, nil
		}
		if m.step == stepConnecting {
			return m, tea.Tick(2*time.Second, func(time.Time) tea.Msg { return retryHealthMsg{} })
		}

	case retryHealthMsg:
		return m, checkHealth(m.api)
	}

	return m, nil
}

type retryHealthMsg struct{}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "backspace":
		if len(m.currentInput) > 0 {
			m.currentInput = m.currentInput[:len(m.currentInput)-1]
		}
	case "enter":
		if m.currentInput != "" {
			m.apiKey = m.currentInput
			m.currentInput = ""
			m.api = client.New(m.baseURL, m.apiKey, nil)
			m.step = stepConnecting
			m.message = "Connecting..."
			return m, checkHealth(m.api)
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.currentInput += string(msg.Runes)
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("IEQI Monitor"))
	s.WriteString("\n")

	switch m.step {
	case stepEnteringAPIKey:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString(promptStyle.Render("Enter API key:"))
		s.WriteString("\n")
		s.WriteString(inputStyle.Render("> " + strings.Repeat("•", len(m.currentInput))))
		s.WriteString("\n\nPress Enter (Esc to quit)\n")

	case stepConnecting:
		if m.message != "" {
			s.WriteString(m.message + "\n")
		}
		s.WriteString(fmt.Sprintf("Connecting to %s...\n", m.baseURL))

	case stepDashboard:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString(headerStyle.Render("Latest reading"))
		s.WriteString("\n")
		if m.latest == nil {
			s.WriteString(normalStyle.Render("No data found"))
			s.WriteString("\n")
		} else {
			s.WriteString(normalStyle.Render(formatReading(*m.latest)))
			s.WriteString("\n")
		}

		s.WriteString("\n")
		s.WriteString(headerStyle.Render(fmt.Sprintf("Recent (%d)", len(m.recent))))
		s.WriteString("\n")
		for i, r := range m.recent {
			if i == 10 {
				s.WriteString(dimStyle.Render(fmt.Sprintf("  ... %d more", len(m.recent)-10)))
				s.WriteString("\n")
				break
			}
			s.WriteString(normalStyle.Render(formatReading(r)))
			s.WriteString("\n")
		}

		if !m.updatedAt.IsZero() {
			s.WriteString(dimStyle.Render("\nupdated " + m.updatedAt.Format("15:04:05")))
			s.WriteString("\n")
		}
		s.WriteString("\nr refresh • s send simulated reading • q quit\n")
	}

	return s.String()
}

func formatReading(r entities.Reading) string {
	return fmt.Sprintf("%s  %-16s  T %5.1f°C  H %5.1f%%  L %6.1f lx  IEQI %5.1f",
		r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		r.DeviceID, r.Temperature, r.Humidity, r.Light, r.IEQI)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	baseURL := flag.String("url", getenvDefault("IEQI_URL", "http://localhost:8787"), "IEQI service base URL")
	apiKey := flag.String("key", os.Getenv("IEQI_API_KEY"), "API key (prompted when empty)")
	deviceID := flag.String("device", getenvDefault("IEQI_DEVICE_ID", "ieqi-monitor"), "device id used for simulated readings")
	flag.Parse()

	p := tea.NewProgram(initialModel(*baseURL, *apiKey, *deviceID))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
