package conversation

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tuanns/meetmind/db"
	"github.com/tuanns/meetmind/message"
)

//go:embed schema.sql
var schemaSQL string

var DefaultDatabasePath = ".dbs/conversations.db"

// Conversation is the append-ordered transcript of one chat session.
type Conversation struct {
	ID        string
	Messages  []*message.Message
	CreatedAt time.Time
}

func InitDB(path string) (*sql.DB, error) {
	if path == "" {
		path = DefaultDatabasePath
	}

	return db.Open(db.Config{
		Dsn:          path,
		MaxOpenConns: 25,
		MaxIdleConns: 25,
		MaxIdleTime:  "15m",
	}, schemaSQL)
}

func New() (*Conversation, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	return &Conversation{
		ID:        id.String(),
		Messages:  make([]*message.Message, 0),
		CreatedAt: time.Now(),
	}, nil
}

// Append adds a message to the transcript, assigning its sequence number.
func (c *Conversation) Append(msg *message.Message) {
	msg.Sequence = len(c.Messages)
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	c.Messages = append(c.Messages, msg)
}

// SaveTo persists the transcript, replacing any previous save of the
// same conversation.
func (c *Conversation) SaveTo(database *sql.DB) error {
	tx, err := database.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO conversations (id, created_at) VALUES (?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		c.ID, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, c.ID); err != nil {
		return fmt.Errorf("failed to clear previous messages: %w", err)
	}

	for _, msg := range c.Messages {
		content, err := json.Marshal(msg.Content)
		if err != nil {
			return fmt.Errorf("failed to marshal message content: %w", err)
		}

		_, err = tx.Exec(
			`INSERT INTO messages (id, conversation_id, role, content, sequence_number, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			msg.ID, c.ID, msg.Role, string(content), msg.Sequence, msg.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save message %d: %w", msg.Sequence, err)
		}
	}

	return tx.Commit()
}

// Load restores a saved conversation by id.
func Load(database *sql.DB, id string) (*Conversation, error) {
	c := &Conversation{ID: id}

	err := database.QueryRow(
		`SELECT created_at FROM conversations WHERE id = ?`, id,
	).Scan(&c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation %s: %w", id, err)
	}

	rows, err := database.Query(
		`SELECT id, role, content, sequence_number, created_at
		 FROM messages WHERE conversation_id = ? ORDER BY sequence_number`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var msg message.Message
		var content string
		if err := rows.Scan(&msg.ID, &msg.Role, &content, &msg.Sequence, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(content), &msg.Content); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message content: %w", err)
		}
		c.Messages = append(c.Messages, &msg)
	}

	return c, rows.Err()
}

// Summary is one row of the saved-conversation listing.
type Summary struct {
	ID           string
	CreatedAt    time.Time
	MessageCount int
}

// List returns saved conversations, newest first.
func List(database *sql.DB) ([]Summary, error) {
	rows, err := database.Query(
		`SELECT c.id, c.created_at, COUNT(m.id)
		 FROM conversations c
		 LEFT JOIN messages m ON m.conversation_id = c.id
		 GROUP BY c.id, c.created_at
		 ORDER BY c.created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.MessageCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}
