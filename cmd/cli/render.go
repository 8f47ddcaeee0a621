package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dvloznov/quiz-leaderboard/internal/leaderboard"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeBoard prints a ranked table. A positive limit keeps only the top rows.
func writeBoard(w io.Writer, title string, users []leaderboard.MatchedUser, limit int) error {
	s := leaderboard.Summarize(users)
	fmt.Fprintf(w, "\n=== %s ===\n", title)
	fmt.Fprintf(w, "Players: %d  Revenue: %.2f  Questions: %d  Avg accuracy: %.1f%%\n\n",
		s.Players, s.Revenue, s.Questions, s.AverageAccuracy)

	if len(users) == 0 {
		fmt.Fprintln(w, "No matched players.")
		return nil
	}

	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "RANK\tMSISDN\tACCURACY\tAMOUNT\tQUESTIONS\tTIME\tSERVICE\t")
	for i, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%.1f%%\t%.2f\t%d/%d\t%ds\t%s\t\n",
			i+1, u.MSISDN, u.Accuracy, u.TotalAmount, u.RightAnswers, u.TotalQuestions, u.TimeTaken, u.ServiceType)
	}
	return tw.Flush()
}

func writeCatalog(w io.Writer, catalog leaderboard.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, c := range catalog {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.Description)
	}
	return tw.Flush()
}
