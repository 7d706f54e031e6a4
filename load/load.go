package load

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"admittance/element"
	"admittance/network"
	"admittance/synchro"
	"admittance/types"

	"gopkg.in/yaml.v3"
)

// Model 加载结果：网络拓扑与可选的潮流运行点
type Model struct {
	Network        *network.Network
	OperatingPoint synchro.OperatingPoint // 文件中没有运行点时为 nil
}

// document 网络模型文件
type document struct {
	BaseMVA        float64             `yaml:"base_mva"`
	Buses          []busRecord         `yaml:"buses"`
	Elements       []yaml.Node         `yaml:"elements"`
	OperatingPoint []synchro.BusResult `yaml:"operating_point"`
}

type busRecord struct {
	ID        string  `yaml:"id"`
	NominalKV float64 `yaml:"nominal_kv"`
	InService *bool   `yaml:"in_service"`
}

// LoadString 加载网络模型
func LoadString(s string) (*Model, error) {
	return LoadReader(strings.NewReader(s))
}

// LoadFile 从文件加载网络模型
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadReader 加载网络模型。
// 母线与元件的 in_service 默认为 true，元件的 base_mva 默认为文件的 base_mva，
// 文件未给出 base_mva 时取 types.DefaultBaseMVA。
func LoadReader(r io.Reader) (*Model, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("load: parse model: %w", err)
	}
	if doc.BaseMVA == 0 {
		doc.BaseMVA = types.DefaultBaseMVA
	}
	net, err := network.New(doc.BaseMVA)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	for _, b := range doc.Buses {
		bus := element.Bus{ID: b.ID, NominalKV: b.NominalKV, InService: enabled(b.InService)}
		if err := net.AddBus(bus); err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
	}

	// 第一遍：解码元件记录；第二遍：按类型创建元件
	for i := range doc.Elements {
		node := &doc.Elements[i]
		var rec record
		if err := node.Decode(&rec); err != nil {
			return nil, fmt.Errorf("load: line %d: %w", node.Line, err)
		}
		el, err := create(net, &rec, doc.BaseMVA)
		if err != nil {
			return nil, fmt.Errorf("load: line %d: %w", node.Line, err)
		}
		if err := net.AddElement(el); err != nil {
			return nil, fmt.Errorf("load: line %d: %w", node.Line, err)
		}
	}

	m := &Model{Network: net}
	if len(doc.OperatingPoint) > 0 {
		op, err := synchro.FromLoadFlow(doc.OperatingPoint)
		if err != nil {
			return nil, fmt.Errorf("load: operating point: %w", err)
		}
		m.OperatingPoint = op
	}
	return m, nil
}

func enabled(v *bool) bool { return v == nil || *v }
