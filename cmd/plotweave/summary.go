package main

import (
	"fmt"
	"io"

	"github.com/Harshitk-cp/plotweave/internal/domain"
	"github.com/fatih/color"
	"github.com/google/uuid"
)

var (
	headingColor  = color.New(color.FgCyan, color.Bold)
	nameColor     = color.New(color.Bold)
	dimColor      = color.New(color.Faint)
	conflictColor = color.New(color.FgRed, color.Bold)
)

func printSummary(w io.Writer, r *domain.AnalysisResult) {
	names := make(map[uuid.UUID]string)
	for _, c := range r.Characters {
		names[c.ID] = c.Name
	}
	for _, l := range r.Locations {
		names[l.ID] = l.Name
	}
	for _, o := range r.Objects {
		names[o.ID] = o.Name
	}

	heading(w, "Characters", len(r.Characters))
	for _, c := range r.Characters {
		fmt.Fprintf(w, "  %s %s %s\n", nameColor.Sprint(c.Name), c.Role, confidence(c.Confidence))
	}

	heading(w, "Locations", len(r.Locations))
	for _, l := range r.Locations {
		fmt.Fprintf(w, "  %s (%s) %s\n", nameColor.Sprint(l.Name), l.Type, confidence(l.Confidence))
	}

	heading(w, "Objects", len(r.Objects))
	for _, o := range r.Objects {
		fmt.Fprintf(w, "  %s (%s) %s\n", nameColor.Sprint(o.Name), o.Type, confidence(o.Confidence))
	}

	heading(w, "Relationships", len(r.Relationships))
	for _, rel := range r.Relationships {
		arrow := "<->"
		if rel.Directed {
			arrow = "->"
		}
		fmt.Fprintf(w, "  %s %s %s: %s (intensity %d)\n",
			names[rel.SubjectID], arrow, names[rel.ObjectID], rel.RelationshipType, rel.Intensity)
	}

	heading(w, "Events", len(r.Events))
	for _, e := range r.Events {
		when := ""
		if e.ChronologicalTime != "" {
			when = " " + dimColor.Sprintf("[%s]", e.ChronologicalTime)
		}
		fmt.Fprintf(w, "  %4d %s%s\n", e.SequenceNumber, e.Title, when)
	}

	heading(w, "Plotlines", len(r.Plotlines))
	for _, p := range r.Plotlines {
		fmt.Fprintf(w, "  %s (%s, %d events) %s\n", nameColor.Sprint(p.Title), p.Kind, len(p.EventIDs), confidence(p.Confidence))
	}

	if len(r.Conflicts) > 0 {
		heading(w, "Conflicts", len(r.Conflicts))
		for _, c := range r.Conflicts {
			fmt.Fprintf(w, "  %s %s\n", conflictColor.Sprint(c.Kind), c.Description)
		}
	}

	fmt.Fprintln(w, dimColor.Sprintf("%d segments, %d dependencies, %s",
		r.Stats.Segments, len(r.Dependencies), r.Stats.Duration))
}

func heading(w io.Writer, title string, n int) {
	fmt.Fprintln(w, headingColor.Sprintf("%s (%d)", title, n))
}

func confidence(c float64) string {
	return dimColor.Sprintf("%.2f", c)
}
