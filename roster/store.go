package roster

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"conduct-server-go/models"
)

// BlobStore persists the whole record store as one opaque value
type BlobStore interface {
	// Load returns nil data and no error when nothing has been saved yet
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Store holds every class roster in memory and flushes the full state to
// its BlobStore after each mutation. All methods are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	blob    BlobStore
	timeout time.Duration

	order   []string // class names in creation order
	classes map[string][]models.Student
}

// NewStore creates an empty Store backed by blob
func NewStore(blob BlobStore, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Store{
		blob:    blob,
		timeout: timeout,
		classes: make(map[string][]models.Student),
	}
}

// Load replaces the in-memory state with the persisted blob. A missing,
// unreadable or malformed blob leaves the store empty; the problem is only
// logged. It returns the number of classes loaded.
func (s *Store) Load(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = nil
	s.classes = make(map[string][]models.Student)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := s.blob.Load(ctx)
	if err != nil {
		log.Printf("Could not read stored classes, starting empty: %v", err)
		return 0
	}
	if len(data) == 0 {
		return 0
	}

	order, classes, err := decodeBlob(data)
	if err != nil {
		log.Printf("Stored classes are malformed, starting empty: %v", err)
		return 0
	}
	s.order = order
	s.classes = classes
	return len(order)
}

// IsEmpty reports whether the store holds no classes
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order) == 0
}

// --- Class Operations ---

// Classes lists every class with its student count, in creation order
func (s *Store) Classes() []models.ClassSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ClassSummary, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, models.ClassSummary{Name: name, StudentCount: len(s.classes[name])})
	}
	return out
}

// Class returns a copy of one class and its roster
func (s *Store) Class(name string) (models.Clazz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	students, ok := s.classes[name]
	if !ok {
		return models.Clazz{}, fmt.Errorf("%w: %s", ErrClassNotFound, name)
	}
	return models.Clazz{Name: name, Students: cloneStudents(students)}, nil
}

// Snapshot returns a copy of every class, in creation order
func (s *Store) Snapshot() []models.Clazz {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Clazz, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, models.Clazz{Name: name, Students: cloneStudents(s.classes[name])})
	}
	return out
}

// AddClass creates an empty class
func (s *Store) AddClass(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("class %w", ErrEmptyName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.classes[name]; ok {
		return fmt.Errorf("%w: %s", ErrClassExists, name)
	}
	s.addClassLocked(name)
	s.flushLocked()
	log.Printf("Added class: %s", name)
	return nil
}

// DeleteClass removes a class together with all of its students
func (s *Store) DeleteClass(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.classes[name]; !ok {
		return fmt.Errorf("%w: %s", ErrClassNotFound, name)
	}
	delete(s.classes, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.flushLocked()
	log.Printf("Deleted class: %s", name)
	return nil
}

// --- Student Operations ---

// AddStudent appends a new student to a class
func (s *Store) AddStudent(className, name string) (models.Student, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Student{}, fmt.Errorf("student %w", ErrEmptyName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	students, ok := s.classes[className]
	if !ok {
		return models.Student{}, fmt.Errorf("%w: %s", ErrClassNotFound, className)
	}
	for _, st := range students {
		if st.Name == name {
			return models.Student{}, fmt.Errorf("%w: %s", ErrStudentExists, name)
		}
	}
	student := models.NewStudent(name)
	s.classes[className] = append(students, student)
	s.flushLocked()
	return student, nil
}

// DeleteStudent removes the student at index from a class
func (s *Store) DeleteStudent(className string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	students, err := s.studentsAtLocked(className, index)
	if err != nil {
		return err
	}
	s.classes[className] = append(students[:index:index], students[index+1:]...)
	s.flushLocked()
	return nil
}

// ApplyTags overwrites the behaviors of the student at index and
// recomputes its score
func (s *Store) ApplyTags(className string, index int, positive, negative []string) (models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	students, err := s.studentsAtLocked(className, index)
	if err != nil {
		return models.Student{}, err
	}
	updated, err := ApplyTags(students[index], positive, negative)
	if err != nil {
		return models.Student{}, err
	}
	students[index] = updated
	s.flushLocked()
	return updated, nil
}

// RandomStudent picks one student of a class at random. It returns nil when
// the class has no students.
func (s *Store) RandomStudent(className string) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	students, ok := s.classes[className]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClassNotFound, className)
	}
	if len(students) == 0 {
		return nil, nil
	}
	picked := cloneStudent(students[rand.IntN(len(students))])
	return &picked, nil
}

// --- Import ---

// ImportCells reconciles raw spreadsheet cells into an existing class and
// returns how many students were added
func (s *Store) ImportCells(className string, cells []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	students, ok := s.classes[className]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrClassNotFound, className)
	}
	updated, added := Reconcile(cells, students)
	if added == 0 {
		return 0, nil
	}
	s.classes[className] = updated
	s.flushLocked()
	log.Printf("Imported %d students into class %s", added, className)
	return added, nil
}

// ImportPairs reconciles structured (class, name) rows, creating classes
// that do not exist yet. It returns the touched classes in first-seen order
// with their added counts, and the total.
func (s *Store) ImportPairs(pairs []models.ClassStudent) ([]string, map[string]int, int) {
	order, cells := GroupPairs(pairs)

	s.mu.Lock()
	defer s.mu.Unlock()

	perClass := make(map[string]int, len(order))
	total := 0
	changed := false
	for _, className := range order {
		if _, ok := s.classes[className]; !ok {
			log.Printf("Import target class %s does not exist. Creating it.", className)
			s.addClassLocked(className)
			changed = true
		}
		updated, added := Reconcile(cells[className], s.classes[className])
		s.classes[className] = updated
		perClass[className] = added
		total += added
		if added > 0 {
			changed = true
		}
	}
	if changed {
		s.flushLocked()
	}
	log.Printf("Imported %d students across %d classes", total, len(order))
	return order, perClass, total
}

// --- Internals ---

func (s *Store) addClassLocked(name string) {
	s.order = append(s.order, name)
	s.classes[name] = []models.Student{}
}

func (s *Store) studentsAtLocked(className string, index int) ([]models.Student, error) {
	students, ok := s.classes[className]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClassNotFound, className)
	}
	if index < 0 || index >= len(students) {
		return nil, fmt.Errorf("%w: index %d in class %s", ErrStudentNotFound, index, className)
	}
	return students, nil
}

// flushLocked writes the full state to the blob store. Failures are logged
// and the in-memory state is kept; there is no retry.
func (s *Store) flushLocked() {
	data, err := encodeBlob(s.order, s.classes)
	if err != nil {
		log.Printf("Error encoding classes for storage: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.blob.Save(ctx, data); err != nil {
		log.Printf("Error saving classes: %v", err)
	}
}

// encodeBlob writes {"class": [students...], ...} keeping class order
func encodeBlob(order []string, classes map[string][]models.Student) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		students, err := json.Marshal(classes[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(students)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeBlob reads the object written by encodeBlob, keeping key order.
// Students are normalized: missing behavior lists become empty and the
// score is recomputed from them. Nameless students and repeated names
// (after the first) are dropped.
func decodeBlob(data []byte) ([]string, map[string][]models.Student, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, errors.New("expected a JSON object of classes")
	}

	var order []string
	classes := make(map[string][]models.Student)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		name, ok := tok.(string)
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("invalid class name %v", tok)
		}
		var students []models.Student
		if err := dec.Decode(&students); err != nil {
			return nil, nil, fmt.Errorf("class %s: %w", name, err)
		}
		if _, dup := classes[name]; !dup {
			order = append(order, name)
		}
		classes[name] = normalizeStudents(students)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, nil, errors.New("unexpected data after classes object")
	}
	return order, classes, nil
}

func normalizeStudents(in []models.Student) []models.Student {
	out := make([]models.Student, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, st := range in {
		if strings.TrimSpace(st.Name) == "" {
			continue
		}
		if _, dup := seen[st.Name]; dup {
			continue
		}
		seen[st.Name] = struct{}{}
		if st.Positive == nil {
			st.Positive = []string{}
		}
		if st.Negative == nil {
			st.Negative = []string{}
		}
		st.Score = len(st.Positive) - len(st.Negative)
		out = append(out, st)
	}
	return out
}

func cloneStudents(in []models.Student) []models.Student {
	out := make([]models.Student, len(in))
	for i, st := range in {
		out[i] = cloneStudent(st)
	}
	return out
}

func cloneStudent(st models.Student) models.Student {
	st.Positive = append([]string{}, st.Positive...)
	st.Negative = append([]string{}, st.Negative...)
	return st
}
