package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/archecs/ecs"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type Report struct {
	// Configuration
	RunID    string        `yaml:"run_id"`
	Seed     int64         `yaml:"seed"`
	Duration time.Duration `yaml:"duration"`
	Entities int           `yaml:"entities"`
	Churn    float64       `yaml:"churn"`

	// Results
	TotalUpdates   int64             `yaml:"total_updates"`
	TotalTime      time.Duration     `yaml:"total_time"`
	UpdateTime     Stats             `yaml:"update_time"`
	Replaced       int64             `yaml:"replaced"`
	ChurnAdded     int64             `yaml:"churn_added"`
	ChurnRemoved   int64             `yaml:"churn_removed"`
	Registry       ecs.RegistryStats `yaml:"registry"`
	Systems        []ecs.SystemStats `yaml:"systems"`
	Memory         MemoryUsage       `yaml:"memory"`
	GCPauseMetrics bool              `yaml:"-"`
	MemStatsStart  runtime.MemStats  `yaml:"-"`
	MemStatsEnd    runtime.MemStats  `yaml:"-"`
}

type Stats struct {
	Min     time.Duration   `yaml:"min"`
	Max     time.Duration   `yaml:"max"`
	Avg     time.Duration   `yaml:"avg"`
	Samples []time.Duration `yaml:"-"`
}

// MemoryUsage is the slice of runtime.MemStats worth keeping in a YAML report.
type MemoryUsage struct {
	HeapAllocDelta  int64         `yaml:"heap_alloc_delta"`
	TotalAllocDelta int64         `yaml:"total_alloc_delta"`
	SysDelta        int64         `yaml:"sys_delta"`
	NumGC           uint32        `yaml:"num_gc"`
	GCPauseTotal    time.Duration `yaml:"gc_pause_total"`
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// Finalize computes the derived fields once the run is over.
func (r *Report) Finalize() {
	r.UpdateTime.Finalize()
	r.Memory = MemoryUsage{
		HeapAllocDelta:  int64(r.MemStatsEnd.HeapAlloc) - int64(r.MemStatsStart.HeapAlloc),
		TotalAllocDelta: int64(r.MemStatsEnd.TotalAlloc) - int64(r.MemStatsStart.TotalAlloc),
		SysDelta:        int64(r.MemStatsEnd.Sys) - int64(r.MemStatsStart.Sys),
		NumGC:           r.MemStatsEnd.NumGC - r.MemStatsStart.NumGC,
		GCPauseTotal:    time.Duration(r.MemStatsEnd.PauseTotalNs - r.MemStatsStart.PauseTotalNs),
	}
}

// Write renders the report in the given format, "text" or "yaml".
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return eris.Wrap(err, "encoding yaml report")
		}
		return enc.Close()
	case "text":
		return r.Generate(w)
	default:
		return eris.Errorf("unknown report format %q", format)
	}
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# ECS Stress Test Report

## Test Configuration
- **Run ID:** {{.RunID}}
- **Seed:** {{.Seed}}
- **Run Duration:** {{.Duration}}
- **Initial Entities:** {{.Entities}}
- **Churn Ratio:** {{.Churn}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
- **Entities Replaced:** {{.Replaced}}
- **Velocity Churn:** +{{.ChurnAdded}} / -{{.ChurnRemoved}}

## Systems
{{range .Systems}}- {{.Name}}: {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}
## Registry
- Live Entities:  {{.Registry.TotalEntityCount}}
- Free Slots:     {{.Registry.FreeSlots}}
- Archetypes:     {{.Registry.ArchetypeCount}}
- Components:     {{.Registry.RegisteredComponents}}
{{range .Registry.ArchetypeBreakdown}}{{if .EntityCount}}  - #{{.Index}} {{hex .Hash}}: {{.EntityCount}}/{{.Capacity}} {{.Components}}
{{end}}{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{.Memory.HeapAllocDelta}} ({{mb .Memory.HeapAllocDelta}} MB)
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{.Memory.TotalAllocDelta}} ({{mb .Memory.TotalAllocDelta}} MB)
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{.Memory.SysDelta}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{.Memory.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.Memory.GCPauseTotal}}
- **Num GC Cycles:** {{.Memory.NumGC}}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"hex": func(h ecs.TypeHash) string {
			return fmt.Sprintf("%08x", uint32(h))
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
