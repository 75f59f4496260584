package main

import (
	"context"
	"fmt"
	"strings"

	"runebind/cmd/runebind/htmlsink"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var previewOpts renderFlags

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(0, 1)

	styleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	styleBase = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
)

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Browse the rendered tree of a page in the terminal",
	Long: "Show the element tree of a page with its diagnostics, and reload it\n" +
		"whenever the file is saved.\n\n" +
		"Keys: ↑/↓ scroll, c fires a click on the root element, r reloads, q quits.",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: pageCompletion,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadRenderFlags(cmd, &previewOpts); err != nil {
			return err
		}
		path, err := pageArg(args)
		if err != nil {
			return err
		}

		p := tea.NewProgram(newPreviewModel(path, &previewOpts), tea.WithAltScreen())

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() {
			if err := watchFile(ctx, path, func() { p.Send(reloadMsg{}) }); err != nil {
				p.Send(watchErrMsg{err})
			}
		}()

		_, err = p.Run()
		return err
	},
}

type reloadMsg struct{}

type watchErrMsg struct{ err error }

type previewModel struct {
	path     string
	opts     *renderFlags
	doc      *htmlsink.Document
	viewport viewport.Model
	ready    bool

	passes  int
	status  string
	outline string
	diags   string
}

func newPreviewModel(path string, opts *renderFlags) previewModel {
	m := previewModel{
		path: path,
		opts: opts,
		doc:  htmlsink.NewDocument(pageTitle(path)),
	}
	m.reload()
	return m
}

// reload renders the page again.
func (m *previewModel) reload() {
	m.passes++
	m.status = fmt.Sprintf("pass %d", m.passes)

	p, err := renderPage(m.path, m.doc, m.opts)
	if err != nil {
		m.outline = styleError.Render("Error: "+err.Error()) + "\n"
	} else {
		m.outline = m.doc.Outline()
	}

	m.diags = ""
	if d := p.diagnostics(); d.Len() > 0 {
		var b strings.Builder
		b.WriteString("\n" + styleTitle.Render(fmt.Sprintf("%d diagnostic(s)", d.Len())) + "\n")
		for _, it := range d.Items() {
			b.WriteString(formatDiagnostic(m.path, it) + "\n")
		}
		m.diags = b.String()
	}
	m.refresh()
}

// click dispatches a click event on the root element.
func (m *previewModel) click() {
	root := m.doc.Root()
	if root == nil {
		m.status = "nothing to click"
		return
	}
	if err := m.doc.Dispatch(root, "click", m.passes); err != nil {
		m.status = styleError.Render("click: " + err.Error())
	} else {
		m.status = "clicked <" + root.Data + ">"
	}
	m.outline = m.doc.Outline()
	m.refresh()
}

func (m *previewModel) refresh() {
	if m.ready {
		m.viewport.SetContent(m.outline + m.diags)
	}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := msg.Height - 4
		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, height)
			m.ready = true
			m.refresh()
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = height
		}
		return m, nil
	case reloadMsg:
		m.reload()
		return m, nil
	case watchErrMsg:
		m.status = styleError.Render("watch: " + msg.err.Error())
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.reload()
			return m, nil
		case "c":
			m.click()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m previewModel) View() string {
	if !m.ready {
		return "loading…"
	}
	title := styleTitle.Render(appName + "  " + m.path)
	help := styleHelp.Render(m.status + "  •  ↑/↓ scroll  c click  r reload  q quit")
	return title + "\n" + styleBase.Render(m.viewport.View()) + "\n" + help
}

func init() {
	bindRenderFlags(previewCmd.Flags(), &previewOpts)
}
