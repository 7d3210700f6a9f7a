package main

import (
	"fmt"
	"time"

	caliper "github.com/Tap30/caliper-go"
	"github.com/spf13/cobra"
)

const sectionIRI = "https://example.edu/terms/201601/courses/7/sections/1"

// exampleEvent builds the extended Modified event: an actor revises the
// course syllabus and the two prior versions travel in the archive extension.
func exampleEvent() (*caliper.Event, error) {
	created := time.Date(2016, 11, 12, 7, 15, 0, 0, time.UTC)
	modified := time.Date(2016, 11, 15, 10, 15, 0, 0, time.UTC)

	archive := []any{
		&caliper.Document{
			ID:           sectionIRI + "/resources/123?version=2",
			DateCreated:  created,
			DateModified: time.Date(2016, 11, 13, 11, 0, 0, 0, time.UTC),
			Version:      "2",
			Filter:       caliper.SerializeAllID,
		},
		&caliper.Document{
			ID:          sectionIRI + "/resources/123?version=1",
			DateCreated: created,
			Version:     "1",
			Filter:      caliper.SerializeAllID,
		},
	}

	return caliper.NewEventBuilder().
		Context(caliper.DefaultContext).
		ID("urn:uuid:5973dcd9-3126-4dcc-8fd8-8153a155361c").
		Actor(&caliper.Person{ID: "https://example.edu/users/554433"}).
		Action(caliper.ActionModified).
		Object(&caliper.Document{
			ID:           sectionIRI + "/resources/123?version=3",
			Name:         "Course Syllabus",
			DateCreated:  created,
			DateModified: modified,
			Version:      "3",
		}).
		EventTime(modified).
		Extensions(map[string]any{"archive": archive}).
		Build()
}

func newExampleCmd() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print the extended Modified example event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := exampleEvent()
			if err != nil {
				return err
			}

			var data []byte
			if compact {
				data, err = caliper.DefaultSerializer().Marshal(ev)
			} else {
				data, err = caliper.DefaultSerializer().MarshalIndent(ev, "", "  ")
			}
			if err != nil {
				return fmt.Errorf("serializing example: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print without indentation")
	return cmd
}
