package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/klyphq/klypstore/internal/config"
	"github.com/klyphq/klypstore/internal/database/students"
	"github.com/klyphq/klypstore/internal/entities"
	"github.com/klyphq/klypstore/internal/entrypoint"
)

// SeedDemoCommand populates the local store with a small demo dataset
type SeedDemoCommand struct {
	ClassCode string
}

// NewSeedDemoCommand creates a new SeedDemoCommand
func NewSeedDemoCommand() *SeedDemoCommand {
	return &SeedDemoCommand{}
}

// ParseFlags parses command line flags
func (cmd *SeedDemoCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed-demo", flag.ExitOnError)

	fs.StringVar(&cmd.ClassCode, "class-code", "BIO-101", "Class code for the demo class")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed-demo [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a demo educator, class, students and klyps in the local store.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the seed-demo command
func (cmd *SeedDemoCommand) Run() error {
	app, err := entrypoint.New(config.NewConfig())
	if err != nil {
		return err
	}
	defer app.Close()

	educator := &entities.Educator{
		FullName:      "Mary Major",
		Age:           41,
		CurrentJob:    "Biology teacher",
		InstituteName: "Springfield High",
		PhoneNumber:   "+15550100123",
		Verified:      true,
	}
	if err := app.Educators.Save(educator); err != nil {
		return fmt.Errorf("save educator: %w", err)
	}

	class := &entities.ClassDocument{
		ClassCode:  cmd.ClassCode,
		ClassTitle: "Introduction to Biology",
		EducatorID: "+15550100123",
	}
	if err := app.Classes.Save(class); err != nil {
		return fmt.Errorf("save class: %w", err)
	}

	demoStudents := []entities.Student{
		{FirstName: "Jane", LastName: "Doe"},
		{FirstName: "Alice", LastName: "Smith"},
	}
	for i := range demoStudents {
		student := &demoStudents[i]
		student.EnrolledClassIDs = []string{class.ID}
		if err := app.Students.Save(student); err != nil {
			return fmt.Errorf("save student %s %s: %w", student.FirstName, student.LastName, err)
		}
		// Enrollment is two writes: the student's list and the class roster.
		class.StudentIDs = append(class.StudentIDs, students.NaturalKey(student.FirstName, student.LastName))
	}
	if err := app.Classes.Save(class); err != nil {
		return fmt.Errorf("update class roster: %w", err)
	}

	klyp := &entities.Klyp{
		ClassCode: cmd.ClassCode,
		Title:     "Cell structure",
		MainBody:  "Cells are the basic structural unit of living organisms.",
		Questions: []entities.Question{
			{
				QuestionText:  "Which organelle produces most of a cell's ATP?",
				Options:       []string{"Nucleus", "Mitochondrion", "Ribosome", "Golgi apparatus"},
				CorrectAnswer: "B",
			},
		},
	}
	if err := app.Klyps.Save(klyp); err != nil {
		return fmt.Errorf("save klyp: %w", err)
	}

	fmt.Printf("Seeded class %s with %d students and 1 klyp\n", cmd.ClassCode, len(demoStudents))
	return nil
}
