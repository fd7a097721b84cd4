package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of dir named by the experiment and the
// current timestamp.
func NewWriter(dir, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405.000")
	baseDir := filepath.Join(dir, name, timestamp)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create directory")
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

// Write stores configs and records in every requested format.
func (w *Writer) Write(formats []string, configs []AgentConfig, games []GameRecord, moves []MoveRecord) error {
	if err := w.WriteAgentConfigs(configs); err != nil {
		return err
	}

	for _, format := range formats {
		var err error
		switch format {
		case FormatCSV:
			if err = w.WriteGameRecords(games); err == nil {
				err = w.WriteMoveRecords(moves)
			}
		case FormatParquet:
			err = w.WriteParquet(games, moves)
		default:
			err = errors.Errorf("unknown record format %q", format)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "rounds", "duration", "training", "temperature"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			strconv.Itoa(config.Rounds),
			config.Duration.String(),
			strconv.FormatBool(config.Training),
			strconv.FormatFloat(config.Temperature, 'g', -1, 64),
		})
	}
	return w.writeCSV("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent1", "agent2", "first_agent", "winner_agent",
		"starting_player", "winner", "start_time", "end_time", "duration", "total_moves"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			strconv.Itoa(record.FirstAgent),
			strconv.Itoa(record.WinnerAgent),
			record.StartingPlayer,
			record.Winner,
			record.StartTime.Format(time.RFC3339Nano),
			record.EndTime.Format(time.RFC3339Nano),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		})
	}
	return w.writeCSV("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "agent", "step", "player", "duration", "rounds", "budget",
		"nodes", "max_depth", "interrupted"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Agent),
			strconv.Itoa(record.Step),
			record.Player,
			record.Duration.String(),
			strconv.Itoa(record.Rounds),
			strconv.Itoa(record.Budget),
			strconv.Itoa(record.Nodes),
			strconv.Itoa(record.MaxDepth),
			strconv.FormatBool(record.Interrupted),
		})
	}
	return w.writeCSV("move_records.csv", header, rows)
}

func (w *Writer) writeCSV(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", name)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s header", name)
	}
	if err := writer.WriteAll(rows); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s rows", name)
	}
	// Buffered data may only fail to reach the disk on close
	return errors.Wrapf(f.Close(), "failed to close %s", name)
}
