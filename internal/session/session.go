package session

import "sync"

// Role tags a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Greeting seeds every new transcript as its first assistant message.
const Greeting = "Hi, I'm a search assistant that can look up information from the web, Wikipedia, and academic papers. What would you like to know?"

// Message is one entry in a session transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Transcript is the ordered, append-only message history for one interactive
// session. It lives in memory only and is discarded when the session ends.
type Transcript struct {
	mu       sync.Mutex
	messages []Message
}

// NewTranscript returns a transcript seeded with the assistant greeting.
func NewTranscript() *Transcript {
	t := &Transcript{}
	t.seed()
	return t
}

func (t *Transcript) seed() {
	t.messages = []Message{{Role: RoleAssistant, Content: Greeting}}
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(role Role, content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, Message{Role: role, Content: content})
}

// Messages returns a copy of the transcript in order.
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len reports the number of messages, including the seeded greeting.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

// Last returns the most recent message.
func (t *Transcript) Last() Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.messages[len(t.messages)-1]
}

// Reset discards all history and re-seeds the greeting, without requiring a
// new transcript object.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seed()
}

// Store holds the transcripts for all live sessions, keyed channel:chatID.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Transcript
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Transcript)}
}

// Get returns the transcript for key, creating and seeding it on first use.
func (s *Store) Get(key string) *Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.sessions[key]
	if !ok {
		t = NewTranscript()
		s.sessions[key] = t
	}
	return t
}

// Drop removes the session for key, if any.
func (s *Store) Drop(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}
