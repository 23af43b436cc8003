package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// statusCmd shows a stored application
var statusCmd = &cobra.Command{
	Use:   "status [studentId]",
	Short: "Show the status of a submitted application",
	Long: `Looks up a submitted application by the Student ID printed on the
admission letter.

Example:
  apply status RAC482913`,
	Args: cobra.ExactArgs(1),
	RunE: showStatus,
}

// resendCmd re-sends the admission letter
var resendCmd = &cobra.Command{
	Use:   "resend [studentId]",
	Short: "Email the admission letter again",
	Args:  cobra.ExactArgs(1),
	RunE:  resendLetter,
}

// healthCmd reports the service health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the admission service",
	Args:  cobra.NoArgs,
	RunE:  showHealth,
}

func normalizeStudentID(arg string) string {
	return strings.ToUpper(strings.TrimSpace(arg))
}

func showStatus(cmd *cobra.Command, args []string) error {
	studentID := normalizeStudentID(args[0])
	zapLog.Debug("fetching application status", zap.String("studentId", studentID))

	app, err := newClient().Status(cmd.Context(), studentID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Student ID:\t%s\n", app.StudentID)
	fmt.Fprintf(w, "Name:\t%s\n", app.Name)
	fmt.Fprintf(w, "Email:\t%s\n", app.Email)
	fmt.Fprintf(w, "Status:\t%s\n", app.Status)
	fmt.Fprintf(w, "Payment:\t%s\n", app.PaymentStatus)
	fmt.Fprintf(w, "Submitted:\t%s\n", app.SubmittedAt.Local().Format(time.RFC1123))
	return w.Flush()
}

func resendLetter(cmd *cobra.Command, args []string) error {
	studentID := normalizeStudentID(args[0])
	zapLog.Debug("resending admission letter", zap.String("studentId", studentID))

	resp, err := newClient().ResendLetter(cmd.Context(), studentID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", resp.Message, resp.Email)
	return nil
}

func showHealth(cmd *cobra.Command, args []string) error {
	health, err := newClient().Health(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Service:\t%s\t%s\n", serverURL, health.Status)
	fmt.Fprintf(w, "Database:\t%s\n", health.Services.Database)
	fmt.Fprintf(w, "Email:\t%s\n", health.Services.Email)
	fmt.Fprintf(w, "Checked:\t%s\n", health.Timestamp.Local().Format(time.RFC1123))
	return w.Flush()
}
