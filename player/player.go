// Package player lets a human play tic-tac-toe against a search agent in the
// terminal.
package player

import (
	"fmt"
	"strings"

	"mcts/experiments/metrics"
	"mcts/game/tictactoe"
	"mcts/searcher/agent"

	tea "github.com/charmbracelet/bubbletea"
)

type agentMoveMsg struct {
	move   tictactoe.Move
	metric metrics.SearchMetric
	err    error
}

type model struct {
	state    *tictactoe.State
	human    tictactoe.Player
	agent    agent.Agent[tictactoe.Move, tictactoe.Player]
	cursor   int
	thinking bool
	status   string
	err      error
}

func newModel(a agent.Agent[tictactoe.Move, tictactoe.Player], human tictactoe.Player) model {
	return model{
		state:  tictactoe.NewState(),
		human:  human,
		agent:  a,
		cursor: tictactoe.Size * tictactoe.Size / 2,
	}
}

// Play runs the game until the human quits.
func Play(a agent.Agent[tictactoe.Move, tictactoe.Player], human tictactoe.Player) error {
	_, err := tea.NewProgram(newModel(a, human)).Run()
	return err
}

func (m model) Init() tea.Cmd {
	if m.state.CurrentPlayer() != m.human {
		return m.agentMove()
	}
	return nil
}

func (m model) agentMove() tea.Cmd {
	state := m.state.Clone()
	return func() tea.Msg {
		move, metric, err := m.agent.FindMove(state)
		return agentMoveMsg{move: move, metric: metric, err: err}
	}
}

func (m model) over() bool {
	return m.state.PossibleMoves().Len() == 0
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor >= tictactoe.Size {
				m.cursor -= tictactoe.Size
			}
		case "down", "j":
			if m.cursor < tictactoe.Size*(tictactoe.Size-1) {
				m.cursor += tictactoe.Size
			}
		case "left", "h":
			if m.cursor%tictactoe.Size > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor%tictactoe.Size < tictactoe.Size-1 {
				m.cursor++
			}
		case "enter", " ":
			return m.place()
		}
	case agentMoveMsg:
		m.thinking = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		// Copy before mutating so earlier models keep their board
		m.state = m.state.Clone().(*tictactoe.State)
		m.state.PerformMove(msg.move)
		m.status = fmt.Sprintf("engine played row %d col %d after %d rounds", msg.move.Row()+1, msg.move.Col()+1, msg.metric.Rounds)
	}
	return m, nil
}

func (m model) place() (tea.Model, tea.Cmd) {
	if m.thinking || m.over() || m.state.CurrentPlayer() != m.human {
		return m, nil
	}
	if m.state.Board[m.cursor] != tictactoe.Nobody {
		m.status = "cell taken"
		return m, nil
	}

	m.state = m.state.Clone().(*tictactoe.State)
	m.state.PerformMove(tictactoe.Move(m.cursor))
	m.status = ""
	if m.over() {
		return m, nil
	}
	m.thinking = true
	return m, m.agentMove()
}

func (m model) View() string {
	var b strings.Builder
	for i, cell := range m.state.Board {
		mark := cell.String()
		if i == m.cursor {
			b.WriteString("[" + mark + "]")
		} else {
			b.WriteString(" " + mark + " ")
		}
		if i%tictactoe.Size == tictactoe.Size-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		fmt.Fprintf(&b, "Engine failed: %v\n", m.err)
	case m.over() && m.state.Winner() == m.human:
		b.WriteString("You win!\n")
	case m.over() && m.state.Winner() == tictactoe.Nobody:
		b.WriteString("Draw.\n")
	case m.over():
		b.WriteString("Engine wins.\n")
	case m.thinking:
		b.WriteString("Engine is thinking...\n")
	default:
		fmt.Fprintf(&b, "You play %s. Arrows move, enter places.\n", m.human)
	}
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}

	b.WriteString("\nPress q to quit.\n")
	return b.String()
}
