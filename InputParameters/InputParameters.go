package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/gograd/geometry/dualgrid"
)

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title         string            `yaml:"Title"`
	Dim           int               `yaml:"Dim"`
	NumThreads    int               `yaml:"NumThreads"`
	NumRanks      int               `yaml:"NumRanks"`
	NumVars       int               `yaml:"NumVars"`
	VarBegin      int               `yaml:"VarBegin"`
	VarEnd        int               `yaml:"VarEnd"`
	VelocityIndex int               `yaml:"VelocityIndex"` // -1 for a pure scalar field
	BCs           map[string]string `yaml:"BCs"`           // marker name -> boundary condition name
}

func (ip *InputParameters) Parse(data []byte) error {
	ip.VelocityIndex = -1 // default when the key is absent
	if err := yaml.Unmarshal(data, ip); err != nil {
		return err
	}
	if ip.NumThreads <= 0 {
		ip.NumThreads = 1
	}
	if ip.NumRanks <= 0 {
		ip.NumRanks = 1
	}
	if ip.VarEnd == 0 {
		ip.VarEnd = ip.NumVars
	}
	return nil
}

// MarkerKinds resolves the configured BC names into the builder's map
func (ip *InputParameters) MarkerKinds() map[string]dualgrid.BCKind {
	kinds := make(map[string]dualgrid.BCKind, len(ip.BCs))
	for name, bcName := range ip.BCs {
		kinds[name] = dualgrid.ParseBCName(bcName)
	}
	return kinds
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t= Dim\n", ip.Dim)
	fmt.Printf("[%d]\t\t\t= NumThreads\n", ip.NumThreads)
	fmt.Printf("[%d]\t\t\t= NumRanks\n", ip.NumRanks)
	fmt.Printf("[%d,%d)\t\t\t= Variable range\n", ip.VarBegin, ip.VarEnd)
	fmt.Printf("[%d]\t\t\t= VelocityIndex\n", ip.VelocityIndex)
	keys := make([]string, len(ip.BCs))
	i := 0
	for k := range ip.BCs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %v\n", key, ip.BCs[key])
	}
}
