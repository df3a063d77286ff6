package cli

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// decimalFlag is a pflag.Value holding a money amount.
type decimalFlag struct {
	decimal.Decimal
	set bool
}

var _ pflag.Value = (*decimalFlag)(nil)

func (f *decimalFlag) String() string {
	if !f.set {
		return ""
	}
	return f.Decimal.String()
}

func (f *decimalFlag) Set(s string) error {
	if s == "" {
		f.Decimal, f.set = decimal.Zero, false
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	f.Decimal, f.set = d, true
	return nil
}

func (f *decimalFlag) Type() string { return "decimal" }

// resetFlags restores the local flags of every command below c to their
// defaults so repeated executions in one process do not inherit earlier
// values. Flags inherited from c itself are left alone.
func resetFlags(c *cobra.Command) {
	for _, sub := range c.Commands() {
		sub.LocalFlags().VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			}
		})
		resetFlags(sub)
	}
}

// snapshotFlags records the current values of fs and returns a func that puts
// back any flag changed since, so a shell line such as "--top 5 report" does
// not leak into the lines after it.
func snapshotFlags(fs *pflag.FlagSet) func() {
	type state struct {
		value   string
		changed bool
	}
	saved := map[string]state{}
	fs.VisitAll(func(f *pflag.Flag) {
		saved[f.Name] = state{value: f.Value.String(), changed: f.Changed}
	})
	return func() {
		fs.VisitAll(func(f *pflag.Flag) {
			s, ok := saved[f.Name]
			if !ok || (f.Value.String() == s.value && f.Changed == s.changed) {
				return
			}
			_ = f.Value.Set(s.value)
			f.Changed = s.changed
		})
	}
}
