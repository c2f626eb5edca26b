package rxtest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xinjiayu/rxlite"
)

// Scenario 在虚拟时间上回放的组合场景
type Scenario struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Operator    string           `yaml:"operator"`
	Combiner    string           `yaml:"combiner,omitempty"`
	Sources     []ScenarioSource `yaml:"sources"`
	Run         string           `yaml:"run"`
	DisposeAt   string           `yaml:"dispose_at,omitempty"`
}

// ScenarioSource 一个带时间的冷源
type ScenarioSource struct {
	Name   string          `yaml:"name"`
	Events []ScenarioEvent `yaml:"events"`
}

// ScenarioEvent 三选一：next、error、complete
type ScenarioEvent struct {
	At       string `yaml:"at"`
	Next     *int   `yaml:"next,omitempty"`
	Error    string `yaml:"error,omitempty"`
	Complete bool   `yaml:"complete,omitempty"`
}

// 支持的操作符
const (
	OperatorZip           = "zip"
	OperatorMerge         = "merge"
	OperatorCombineLatest = "combineLatest"
	OperatorConcat        = "concat"
)

// 支持的组合函数
const (
	CombinerSum   = "sum"
	CombinerJoin  = "join"
	CombinerFirst = "first"
)

// LoadScenario 读取并校验YAML场景文件，拒绝未知字段
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario 解析并校验YAML场景
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// Validate 检查必填字段、时间格式与事件形状
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if len(s.Sources) == 0 {
		return errors.New("at least one source is required")
	}
	switch s.Operator {
	case OperatorZip, OperatorMerge, OperatorCombineLatest, OperatorConcat:
	default:
		return fmt.Errorf("unknown operator %q", s.Operator)
	}
	if _, err := s.combiner(); err != nil {
		return err
	}
	if _, err := time.ParseDuration(s.Run); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if s.DisposeAt != "" {
		if _, err := time.ParseDuration(s.DisposeAt); err != nil {
			return fmt.Errorf("dispose_at: %w", err)
		}
	}

	for _, src := range s.Sources {
		if _, err := src.events(); err != nil {
			return fmt.Errorf("source %q: %w", src.Name, err)
		}
	}
	return nil
}

func (src ScenarioSource) events() ([]Event, error) {
	events := make([]Event, 0, len(src.Events))
	for i, ev := range src.Events {
		at, err := time.ParseDuration(ev.At)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}

		set := 0
		if ev.Next != nil {
			set++
			events = append(events, Next(at, *ev.Next))
		}
		if ev.Error != "" {
			set++
			events = append(events, Error(at, errors.New(ev.Error)))
		}
		if ev.Complete {
			set++
			events = append(events, Complete(at))
		}
		if set != 1 {
			return nil, fmt.Errorf("event %d: exactly one of next, error, complete must be set", i)
		}
	}
	return events, nil
}

func (s *Scenario) combiner() (rxlite.Combiner, error) {
	switch s.Combiner {
	case "", CombinerSum:
		return func(values ...interface{}) interface{} {
			total := 0
			for _, v := range values {
				total += v.(int)
			}
			return total
		}, nil
	case CombinerJoin:
		return func(values ...interface{}) interface{} {
			parts := make([]string, len(values))
			for i, v := range values {
				parts[i] = fmt.Sprint(v)
			}
			return strings.Join(parts, "|")
		}, nil
	case CombinerFirst:
		return func(values ...interface{}) interface{} {
			return values[0]
		}, nil
	default:
		return nil, fmt.Errorf("unknown combiner %q", s.Combiner)
	}
}

// Build 在scheduler上构造场景描述的组合序列
func (s *Scenario) Build(scheduler rxlite.Scheduler) (rxlite.Observable, error) {
	combiner, err := s.combiner()
	if err != nil {
		return rxlite.Observable{}, err
	}

	sources := make([]rxlite.Observable, 0, len(s.Sources))
	for _, src := range s.Sources {
		events, err := src.events()
		if err != nil {
			return rxlite.Observable{}, fmt.Errorf("source %q: %w", src.Name, err)
		}
		sources = append(sources, Cold(scheduler, events...))
	}

	switch s.Operator {
	case OperatorZip:
		return rxlite.Zip(sources, combiner), nil
	case OperatorMerge:
		return rxlite.Merge(sources...), nil
	case OperatorCombineLatest:
		return rxlite.CombineLatest(sources, combiner), nil
	case OperatorConcat:
		return rxlite.Concat(sources...), nil
	default:
		return rxlite.Observable{}, fmt.Errorf("unknown operator %q", s.Operator)
	}
}

// RunScenario 在新的TestScheduler上订阅场景序列，推进到run指定的时刻并返回记录
func RunScenario(s *Scenario) (*Recorder, error) {
	scheduler := rxlite.NewTestScheduler()

	observable, err := s.Build(scheduler)
	if err != nil {
		return nil, err
	}

	run, err := time.ParseDuration(s.Run)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	recorder := NewRecorder(scheduler)
	subscription := observable.Log(s.Name).Subscribe(recorder.Observer())

	if s.DisposeAt != "" {
		disposeAt, err := time.ParseDuration(s.DisposeAt)
		if err != nil {
			return nil, fmt.Errorf("dispose_at: %w", err)
		}
		scheduler.ScheduleOnce(disposeAt, subscription.Dispose)
	}

	scheduler.AdvanceTimeBy(run)
	return recorder, nil
}
