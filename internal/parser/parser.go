// Package parser converts freeform workout sheet text into domain entities.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strconv"

	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/domain"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/observability"
)

// linePattern matches one logged set: an exercise name followed by
// "<weight>kg x <reps>". Weight and reps are non-negative integers.
var linePattern = regexp.MustCompile(`^(?P<exercise>[\p{L}\p{N}_][\p{L}\p{N}_ \t]*?)\s+(?P<weight>\d+)kg\s*x\s*(?P<reps>\d+)`)

// Option configures optional behaviour for the Parser.
type Option func(*Parser)

// WithLogger overrides the logger used to report skipped lines.
func WithLogger(logger *log.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// Parser builds Person records from workout sheet lines. Lines that do not
// match the grammar are skipped and logged, never fatal.
type Parser struct {
	logger *log.Logger
}

// New constructs a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		logger: log.New(log.Writer(), "[parser] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseLine converts one sheet line into an Exercise holding a single volume
// timestamped now. The second return reports whether the line matched.
func (p *Parser) ParseLine(line string) (domain.Exercise, bool) {
	match := linePattern.FindStringSubmatch(line)
	if match == nil {
		if line != "" {
			p.logger.Printf("skipping unparseable line: %q", line)
			observability.RecordParseMiss()
		}
		return domain.Exercise{}, false
	}

	weight, err := strconv.ParseFloat(match[linePattern.SubexpIndex("weight")], 64)
	if err != nil {
		p.logger.Printf("skipping line with bad weight: %q", line)
		observability.RecordParseMiss()
		return domain.Exercise{}, false
	}
	reps, err := strconv.Atoi(match[linePattern.SubexpIndex("reps")])
	if err != nil {
		p.logger.Printf("skipping line with bad reps: %q", line)
		observability.RecordParseMiss()
		return domain.Exercise{}, false
	}

	return domain.Exercise{
		Name:    match[linePattern.SubexpIndex("exercise")],
		Volumes: []domain.Volume{domain.NewVolume(weight, reps)},
	}, true
}

// ParsePerson reads sheet lines from r and builds a Person whose exercises
// are the matched lines in order. An empty name is an InputError; so is a
// read failure on the source.
func (p *Parser) ParsePerson(name string, r io.Reader) (domain.Person, error) {
	if name == "" {
		return domain.Person{}, domain.NewInputError("name", "must not be empty")
	}
	if r == nil {
		return domain.Person{}, domain.NewInputError("source", "no input provided")
	}

	person := domain.Person{Name: name}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if exercise, ok := p.ParseLine(scanner.Text()); ok {
			person.Exercises = append(person.Exercises, exercise)
		}
	}
	if err := scanner.Err(); err != nil {
		return domain.Person{}, domain.NewInputError("source", fmt.Sprintf("read failed: %v", err))
	}
	return person, nil
}

// ParseFile parses the sheet file at path for the named person.
func (p *Parser) ParseFile(name, path string) (domain.Person, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Person{}, domain.NewInputError("source", fmt.Sprintf("cannot open %s: %v", path, err))
	}
	defer f.Close()
	return p.ParsePerson(name, f)
}
