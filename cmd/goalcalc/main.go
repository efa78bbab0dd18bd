// goalcalc prints daily calorie and macro goals for a body profile.
// Usage: go run ./cmd/goalcalc --sex female --birthday 1990-04-02 --height 165 --weight 60 --activity moderately-active --goal maintain
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lg/fastfood-nutrition-api/internal/goals"
)

type options struct {
	sex      string
	birthday string
	height   string
	weight   string
	activity string
	goal     string
	asOf     string
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "goalcalc",
		Short: "goalcalc computes daily calorie and macro goals",
		Long: "goalcalc estimates daily calorie needs from sex, age, height, weight and activity " +
			"level, adjusts them for a goal, and splits them into protein, fat and carbs.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	levels := make([]string, 0, len(goals.ActivityLevels()))
	for _, l := range goals.ActivityLevels() {
		levels = append(levels, string(l))
	}

	f := cmd.Flags()
	f.StringVar(&opts.sex, "sex", "", "male or female")
	f.StringVar(&opts.birthday, "birthday", "", "date of birth (YYYY-MM-DD)")
	f.StringVar(&opts.height, "height", "", "height in centimetres")
	f.StringVar(&opts.weight, "weight", "", "weight in kilograms")
	f.StringVar(&opts.activity, "activity", string(goals.Sedentary), "one of: "+strings.Join(levels, ", "))
	f.StringVar(&opts.goal, "goal", string(goals.GoalMaintain), "lose-weight, gain-muscle or maintain")
	f.StringVar(&opts.asOf, "as-of", "", "compute age as of this date (YYYY-MM-DD) instead of today")
	for _, name := range []string{"sex", "birthday", "height", "weight"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func run(cmd *cobra.Command, opts options) error {
	birthday, err := goals.ParseBirthday(opts.birthday)
	if err != nil {
		return err
	}
	height, err := goals.ParseMeasurement("height", opts.height)
	if err != nil {
		return err
	}
	weight, err := goals.ParseMeasurement("weight", opts.weight)
	if err != nil {
		return err
	}

	calcOpts := []goals.Option{
		goals.WithFallbackObserver(func(f goals.Fallback) {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: unrecognised %s %q, using %s\n", f.Field, f.Value, f.Used)
		}),
	}
	if opts.asOf != "" {
		asOf, err := time.Parse("2006-01-02", opts.asOf)
		if err != nil {
			return fmt.Errorf("--as-of must be a date in YYYY-MM-DD format")
		}
		calcOpts = append(calcOpts, goals.WithClock(func() time.Time { return asOf }))
	}
	calc := goals.New(calcOpts...)

	res, err := calc.Compute(goals.Profile{
		Sex:      goals.Sex(opts.sex),
		Birthday: birthday,
		HeightCM: height,
		WeightKG: weight,
		Activity: goals.ActivityLevel(opts.activity),
		Goal:     goals.Goal(opts.goal),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Age: %d\n", calc.Age(birthday))
	fmt.Fprintf(out, "Goal: %s\n", res.Goal)
	fmt.Fprintf(out, "Calories: %d\n", res.CalorieNeeds)
	fmt.Fprintf(out, "Protein: %dg\nFat: %dg\nCarbs: %dg\n", res.Macros.Protein, res.Macros.Fat, res.Macros.Carbs)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
