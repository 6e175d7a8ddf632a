package cli

import (
	"fmt"
	"strings"

	"todo-tracker/backend/internal/services"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all todos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			todos, err := opts.client.ListTodos(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), todos)
		},
	}
}

func newGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			todo, err := opts.client.GetTodo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), todo)
		},
	}
}

type todoFlags struct {
	task        string
	priority    int
	description string
	dueDate     string
	tags        string
	assignedTo  string
	category    string
}

func (f *todoFlags) register(flags *pflag.FlagSet) {
	flags.IntVar(&f.priority, "priority", 1, "priority")
	flags.StringVar(&f.description, "description", "", "description")
	flags.StringVar(&f.dueDate, "due", "", "due date (YYYY-MM-DD or RFC3339)")
	flags.StringVar(&f.tags, "tags", "", `comma separated tags, e.g. "work, urgent"`)
	flags.StringVar(&f.assignedTo, "assigned-to", "", "assignee")
	flags.StringVar(&f.category, "category", "", "category")
}

// changed returns the GraphQL arguments for the flags set on the command
// line. Unset flags are left out entirely.
func (f *todoFlags) changed(flags *pflag.FlagSet) map[string]interface{} {
	fields := make(map[string]interface{})
	if flags.Changed("task") {
		fields["task"] = f.task
	}
	if flags.Changed("priority") {
		fields["priority"] = f.priority
	}
	if flags.Changed("description") {
		fields["description"] = f.description
	}
	if flags.Changed("due") {
		fields["dueDate"] = f.dueDate
	}
	if flags.Changed("tags") {
		fields["tags"] = services.ParseTags(f.tags)
	}
	if flags.Changed("assigned-to") {
		fields["assignedTo"] = f.assignedTo
	}
	if flags.Changed("category") {
		fields["category"] = f.category
	}
	return fields
}

var unsettable = map[string]string{
	"description": "description",
	"due":         "dueDate",
	"assigned-to": "assignedTo",
	"category":    "category",
}

func newAddCommand(opts *rootOptions) *cobra.Command {
	f := &todoFlags{}
	cmd := &cobra.Command{
		Use:   "add TASK",
		Short: "Create a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			todo, err := opts.client.AddTodo(cmd.Context(), args[0], f.changed(cmd.Flags()))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), todo)
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newUpdateCommand(opts *rootOptions) *cobra.Command {
	f := &todoFlags{}
	var unset []string
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change the given fields of a todo",
		Long: `Change the given fields of a todo. Only flags present on the command
line are sent; everything else keeps its stored value. Use --unset to
clear optional fields, e.g. --unset due,assigned-to.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := f.changed(cmd.Flags())
			for _, name := range unset {
				arg, ok := unsettable[strings.TrimSpace(name)]
				if !ok {
					return fmt.Errorf("cannot unset %q", name)
				}
				fields[arg] = nil
			}

			todo, err := opts.client.UpdateTodo(cmd.Context(), args[0], fields)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), todo)
		},
	}
	cmd.Flags().StringVar(&f.task, "task", "", "task")
	f.register(cmd.Flags())
	cmd.Flags().StringSliceVar(&unset, "unset", nil, "optional fields to clear: description, due, assigned-to, category")
	return cmd
}

func newToggleCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Flip the completion state of a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			todo, err := opts.client.ToggleTodo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), todo)
		},
	}
}

func newDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := opts.client.DeleteTodo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]bool{"deleteTodo": deleted})
		},
	}
}
