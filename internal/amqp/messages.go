package amqp

import (
	"encoding/json"
	"time"
)

// DatasetRefreshedMessage tells consumers the cleaned dataset changed.
// It carries counts, not rows; consumers re-read the cleaned file or the
// warehouse themselves.
type DatasetRefreshedMessage struct {
	Source      string    `json:"source"`
	Rows        int       `json:"rows"`
	RowsDropped int       `json:"rows_dropped"`
	CompletedAt time.Time `json:"completed_at"`
}

func NewDatasetRefreshedMessage(source string, rows, rowsDropped int) *DatasetRefreshedMessage {
	return &DatasetRefreshedMessage{
		Source:      source,
		Rows:        rows,
		RowsDropped: rowsDropped,
		CompletedAt: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *DatasetRefreshedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DatasetRefreshedMessageFromJSON parses a message from JSON bytes.
func DatasetRefreshedMessageFromJSON(data []byte) (*DatasetRefreshedMessage, error) {
	var msg DatasetRefreshedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
