package metrics

import (
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
	"github.com/pkg/errors"
)

// GameRow is the parquet layout of a GameRecord. Times are unix milliseconds.
type GameRow struct {
	ID             int64  `parquet:"id"`
	Agent1         int32  `parquet:"agent1"`
	Agent2         int32  `parquet:"agent2"`
	FirstAgent     int32  `parquet:"first_agent"`
	WinnerAgent    int32  `parquet:"winner_agent"`
	StartingPlayer string `parquet:"starting_player,dict"`
	Winner         string `parquet:"winner,dict"`
	StartTime      int64  `parquet:"start_time_ms"`
	EndTime        int64  `parquet:"end_time_ms"`
	DurationNs     int64  `parquet:"duration_ns"`
	TotalMoves     int32  `parquet:"total_moves"`
}

// MoveRow is the parquet layout of a MoveRecord.
type MoveRow struct {
	Game        int64  `parquet:"game"`
	Agent       int32  `parquet:"agent"`
	Step        int32  `parquet:"step"`
	Player      string `parquet:"player,dict"`
	DurationNs  int64  `parquet:"duration_ns"`
	Rounds      int32  `parquet:"rounds"`
	Budget      int32  `parquet:"budget"`
	Nodes       int32  `parquet:"nodes"`
	MaxDepth    int32  `parquet:"max_depth"`
	Interrupted bool   `parquet:"interrupted"`
}

func gameRows(records []GameRecord) []GameRow {
	rows := make([]GameRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, GameRow{
			ID:             int64(r.ID),
			Agent1:         int32(r.Agent1),
			Agent2:         int32(r.Agent2),
			FirstAgent:     int32(r.FirstAgent),
			WinnerAgent:    int32(r.WinnerAgent),
			StartingPlayer: r.StartingPlayer,
			Winner:         r.Winner,
			StartTime:      r.StartTime.UnixMilli(),
			EndTime:        r.EndTime.UnixMilli(),
			DurationNs:     r.Duration.Nanoseconds(),
			TotalMoves:     int32(r.TotalMoves),
		})
	}
	return rows
}

func moveRows(records []MoveRecord) []MoveRow {
	rows := make([]MoveRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, MoveRow{
			Game:        int64(r.Game),
			Agent:       int32(r.Agent),
			Step:        int32(r.Step),
			Player:      r.Player,
			DurationNs:  r.Duration.Nanoseconds(),
			Rounds:      int32(r.Rounds),
			Budget:      int32(r.Budget),
			Nodes:       int32(r.Nodes),
			MaxDepth:    int32(r.MaxDepth),
			Interrupted: r.Interrupted,
		})
	}
	return rows
}

// WriteParquet stores games and moves as zstd compressed parquet files.
func (w *Writer) WriteParquet(games []GameRecord, moves []MoveRecord) error {
	if err := writeParquet(filepath.Join(w.baseDir, "game_records.parquet"), gameRows(games), "game_record_v1"); err != nil {
		return err
	}
	return writeParquet(filepath.Join(w.baseDir, "move_records.parquet"), moveRows(moves), "move_record_v1")
}

func writeParquet[Row any](path string, rows []Row, schema string) error {
	// Write to a temp file and rename atomically
	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schema),
	); err != nil {
		return errors.Wrapf(err, "write parquet %s", filepath.Base(path))
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrap(err, "rename parquet")
	}
	return nil
}
