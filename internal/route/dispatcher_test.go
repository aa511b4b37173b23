package route

import (
	"testing"

	"firestige.xyz/fastpath/internal/core"
	"firestige.xyz/fastpath/internal/stats"
)

func TestDispatchMissPassesAndCounts(t *testing.T) {
	set := stats.NewSet(1)
	d := NewDispatcher(NewTable())

	v := d.Dispatch(set.Unit(0), [4]byte{10, 0, 0, 1}, 80, 6)
	if v != core.VerdictPass {
		t.Errorf("Expected pass on miss, got %v", v)
	}
	if got := set.Unit(0).Load(stats.Passed); got != 1 {
		t.Errorf("Expected passed=1, got %d", got)
	}
}

func TestDispatchActions(t *testing.T) {
	cases := []struct {
		action  Action
		verdict core.Verdict
		counter stats.Counter
	}{
		{ActionPass, core.VerdictPass, stats.Passed},
		{ActionDrop, core.VerdictDrop, stats.Dropped},
		{ActionReflect, core.VerdictReflect, stats.Reflected},
	}

	for _, tc := range cases {
		t.Run(tc.action.String(), func(t *testing.T) {
			table := NewTable()
			key := Key{PrefixLen: 48, DstIP: [4]byte{10, 0, 0, 1}, DstPort: 80}
			if err := table.Insert(key, Value{Action: tc.action}); err != nil {
				t.Fatal(err)
			}

			set := stats.NewSet(1)
			d := NewDispatcher(table)
			v := d.Dispatch(set.Unit(0), [4]byte{10, 0, 0, 1}, 80, 6)
			if v != tc.verdict {
				t.Errorf("Expected %v, got %v", tc.verdict, v)
			}
			if got := set.Unit(0).Load(tc.counter); got != 1 {
				t.Errorf("Expected %s=1, got %d", tc.counter, got)
			}
		})
	}
}
