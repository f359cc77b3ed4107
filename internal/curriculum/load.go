package curriculum

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/abhisek/synapse/internal/artifact"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedMajor is the content format major version this build reads.
const SupportedMajor = "v1"

//go:embed content
var embedded embed.FS

// Embedded returns the curriculum content shipped with the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "content")
	if err != nil {
		panic(err)
	}
	return sub
}

type unitFile struct {
	Version string `json:"version"`
	Unit    struct {
		Key      string `json:"key"`
		Title    string `json:"title"`
		Order    int    `json:"order"`
		Artifact string `json:"artifact"`
		Lessons  []struct {
			Title     string    `json:"title"`
			Insight   string    `json:"insight"`
			Commands  []Command `json:"commands"`
			Challenge struct {
				Prompt string `json:"prompt"`
				Hint   string `json:"hint"`
				Rules  []Rule `json:"rules"`
			} `json:"challenge"`
		} `json:"lessons"`
	} `json:"unit"`
}

type quizFile struct {
	Version   string `json:"version"`
	Questions []struct {
		Topic   string          `json:"topic"`
		Type    string          `json:"type"`
		Prompt  string          `json:"prompt"`
		Options []string        `json:"options"`
		Answer  json.RawMessage `json:"answer"`
	} `json:"questions"`
}

// Load reads units/*.yaml and quiz.yaml from fsys, validates them and
// builds a Repository.
func Load(fsys fs.FS) (*Repository, error) {
	unitSchema, err := compileSchema("unit.schema.json")
	if err != nil {
		return nil, err
	}
	quizSchema, err := compileSchema("quiz.schema.json")
	if err != nil {
		return nil, err
	}

	files, err := fs.Glob(fsys, "units/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	sort.Strings(files)

	var units []Unit
	for _, name := range files {
		var f unitFile
		if err := decodeFile(fsys, name, unitSchema, &f); err != nil {
			return nil, err
		}
		if err := checkVersion(name, f.Version); err != nil {
			return nil, err
		}
		u, err := f.toUnit()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		units = append(units, u)
	}

	var qf quizFile
	if err := decodeFile(fsys, "quiz.yaml", quizSchema, &qf); err != nil {
		return nil, err
	}
	if err := checkVersion("quiz.yaml", qf.Version); err != nil {
		return nil, err
	}
	quiz, err := qf.toQuestions()
	if err != nil {
		return nil, fmt.Errorf("quiz.yaml: %w", err)
	}

	return New(units, quiz)
}

// decodeFile parses YAML, validates the generic document against schema
// and decodes it into out through its JSON form.
func decodeFile(fsys fs.FS, name string, schema *jsonschema.Schema, out any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert %s: %w", name, err)
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("convert %s: %w", name, err)
	}
	if err := schema.Validate(generic); err != nil {
		return fmt.Errorf("validate %s: %w", name, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func checkVersion(name, v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("%s: invalid version %q", name, v)
	}
	if semver.Major(v) != SupportedMajor {
		return fmt.Errorf("%s: content version %s is not supported (want %s.x.x)", name, v, SupportedMajor)
	}
	return nil
}

func compileSchema(name string) (*jsonschema.Schema, error) {
	raw, err := embedded.ReadFile(path.Join("content", "schema", name))
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", name, err)
	}
	var def any
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := "schema://" + name
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return s, nil
}

func (f unitFile) toUnit() (Unit, error) {
	u := Unit{
		Key:      f.Unit.Key,
		Title:    f.Unit.Title,
		Order:    f.Unit.Order,
		Artifact: artifact.Kind(f.Unit.Artifact),
	}
	for i, l := range f.Unit.Lessons {
		pred, err := Compile(l.Challenge.Rules)
		if err != nil {
			return Unit{}, fmt.Errorf("lesson %d: %w", i, err)
		}
		u.Lessons = append(u.Lessons, Lesson{
			Title:    l.Title,
			Insight:  l.Insight,
			Commands: l.Commands,
			Challenge: Challenge{
				Prompt:    l.Challenge.Prompt,
				Hint:      l.Challenge.Hint,
				Validator: pred,
				Rules:     l.Challenge.Rules,
			},
		})
	}
	return u, nil
}

func (f quizFile) toQuestions() ([]QuizQuestion, error) {
	out := make([]QuizQuestion, 0, len(f.Questions))
	for i, q := range f.Questions {
		qq := QuizQuestion{
			Topic:   q.Topic,
			Type:    QuestionType(q.Type),
			Prompt:  q.Prompt,
			Options: q.Options,
		}
		var err error
		if qq.Type == MultipleChoice {
			err = json.Unmarshal(q.Answer, &qq.AnswerIndex)
		} else {
			err = json.Unmarshal(q.Answer, &qq.AnswerText)
		}
		if err != nil {
			return nil, fmt.Errorf("question %d: answer: %w", i, err)
		}
		out = append(out, qq)
	}
	return out, nil
}
