package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/psychiclamb/poster-tracker/internal/db"
	"github.com/psychiclamb/poster-tracker/internal/store"
	"github.com/psychiclamb/poster-tracker/internal/tracker"
)

func newTopicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topic",
		Short: "Topic management commands",
	}

	cmd.AddCommand(newTopicAddCmd())
	cmd.AddCommand(newTopicListCmd())
	cmd.AddCommand(newTopicMarkCmd("done", "Mark every step of a topic done", true))
	cmd.AddCommand(newTopicMarkCmd("undone", "Clear every step of a topic", false))
	cmd.AddCommand(newTopicMarkCmd("reset", "Reset a topic's progress", false))
	cmd.AddCommand(newTopicDeleteCmd())
	return cmd
}

func newTopicAddCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "add LABEL",
		Short: "Add a new topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTopicAdd(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "poster-tracker.yaml", "path to config file")
	return cmd
}

func runTopicAdd(cmd *cobra.Command, configPath, label string) error {
	s, err := openStore(configPath)
	if err != nil {
		return err
	}

	topics, err := s.LoadAll(cmd.Context())
	if err != nil {
		return err
	}

	label = strings.TrimSpace(label)
	if label == "" {
		return fmt.Errorf("topic label cannot be empty")
	}
	if tracker.FindByLabel(topics, label) != nil {
		return fmt.Errorf("topic %q is already on the list", label)
	}

	t := tracker.NewTopic(label, tracker.MaxOrder(topics)+1)
	topics[t.ID] = t
	if err := s.SaveAll(cmd.Context(), topics); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (rank %d, id %s)\n", t.Label, t.Order, t.ID)
	return nil
}

func newTopicListCmd() *cobra.Command {
	var (
		configPath string
		query      string
		filter     string
		sortMode   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List topics with their progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTopicList(cmd, configPath, query, filter, sortMode)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "poster-tracker.yaml", "path to config file")
	cmd.Flags().StringVarP(&query, "search", "q", "", "substring match on label")
	cmd.Flags().StringVar(&filter, "filter", tracker.FilterAll, "all, incomplete, or complete")
	cmd.Flags().StringVar(&sortMode, "sort", tracker.SortManual, "manual, label, or progress")
	return cmd
}

func runTopicList(cmd *cobra.Command, configPath, query, filter, sortMode string) error {
	s, err := openStore(configPath)
	if err != nil {
		return err
	}

	topics, err := s.LoadAll(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	items := tracker.Visible(topics, query, filter, sortMode)
	if len(items) == 0 {
		fmt.Fprintln(out, "No topics.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tPROGRESS\tLABEL\tID")
	for _, t := range items {
		done, total := tracker.DoneTotal(t)
		fmt.Fprintf(w, "%d\t%d/%d\t%s\t%s\n", t.Order, done, total, t.Label, t.ID)
	}
	w.Flush()

	done, total := tracker.Overall(items)
	fmt.Fprintf(out, "\nOverall: %d/%d steps done\n", done, total)
	return nil
}

func newTopicMarkCmd(use, short string, done bool) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   use + " TOPIC",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTopicMark(cmd, configPath, args[0], done)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "poster-tracker.yaml", "path to config file")
	return cmd
}

func runTopicMark(cmd *cobra.Command, configPath, ref string, done bool) error {
	s, err := openStore(configPath)
	if err != nil {
		return err
	}

	topics, err := s.LoadAll(cmd.Context())
	if err != nil {
		return err
	}
	t, err := resolveTopic(topics, ref)
	if err != nil {
		return err
	}

	t.SetAll(done)
	if err := s.SaveAll(cmd.Context(), topics); err != nil {
		return err
	}
	d, total := tracker.DoneTotal(t)
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %d/%d\n", t.Label, d, total)
	return nil
}

func newTopicDeleteCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "delete TOPIC",
		Short: "Delete a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTopicDelete(cmd, configPath, args[0], yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "poster-tracker.yaml", "path to config file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func runTopicDelete(cmd *cobra.Command, configPath, ref string, skipConfirm bool) error {
	out := cmd.OutOrStdout()

	s, err := openStore(configPath)
	if err != nil {
		return err
	}

	topics, err := s.LoadAll(cmd.Context())
	if err != nil {
		return err
	}
	t, err := resolveTopic(topics, ref)
	if err != nil {
		return err
	}

	if !skipConfirm {
		fmt.Fprintf(out, "Delete %q and its progress? ", t.Label)
		if !confirmLine(cmd) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if err := s.Delete(cmd.Context(), t.ID); err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %s\n", t.Label)
	return nil
}

// resolveTopic finds a topic by exact id or by normalized label.
func resolveTopic(topics map[string]*tracker.Topic, ref string) (*tracker.Topic, error) {
	if t, ok := topics[ref]; ok {
		return t, nil
	}
	if t := tracker.FindByLabel(topics, ref); t != nil {
		return t, nil
	}
	return nil, fmt.Errorf("no topic matches %q", ref)
}

// confirmLine reads one line from stdin and accepts y/yes.
func confirmLine(cmd *cobra.Command) bool {
	var answer string
	fmt.Fscanln(cmd.InOrStdin(), &answer)
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// openStore connects from config and ensures the schema exists.
func openStore(configPath string) (*store.Store, error) {
	_, conn, err := connectFromConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(conn); err != nil {
		return nil, err
	}
	return store.New(conn), nil
}
