package ci

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"commodity-price/core/types"
)

// ActionMetadata is the action.yml document the runner reads
type ActionMetadata struct {
	Name        string                  `yaml:"name"`
	Description string                  `yaml:"description"`
	Author      string                  `yaml:"author,omitempty"`
	Inputs      map[string]ActionInput  `yaml:"inputs"`
	Outputs     map[string]ActionOutput `yaml:"outputs"`
	Runs        ActionRuns              `yaml:"runs"`
	Branding    *ActionBranding         `yaml:"branding,omitempty"`
}

// ActionInput declares one input
type ActionInput struct {
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
	Default     string `yaml:"default,omitempty"`
}

// ActionOutput declares one output
type ActionOutput struct {
	Description string `yaml:"description"`
}

// ActionRuns configures how the runner starts the action
type ActionRuns struct {
	Using string   `yaml:"using"`
	Image string   `yaml:"image"`
	Args  []string `yaml:"args,omitempty"`
}

// ActionBranding is the marketplace icon
type ActionBranding struct {
	Icon  string `yaml:"icon"`
	Color string `yaml:"color"`
}

// Metadata describes this action
func Metadata() ActionMetadata {
	return ActionMetadata{
		Name:        "Commodity price",
		Description: "Look up the price per ounce of a precious metal from a static table",
		Inputs: map[string]ActionInput{
			"commodity": {
				Description: fmt.Sprintf("Commodity to price (%s), case-insensitive", types.Join(types.Commodities())),
				Required:    true,
				Default:     string(types.CommodityGold),
			},
			"currency": {
				Description: fmt.Sprintf("Currency of the price (%s), case-insensitive", types.Join(types.Currencies())),
				Required:    true,
				Default:     string(types.CurrencyUSD),
			},
		},
		Outputs: map[string]ActionOutput{
			OutputPrice: {Description: "Price per troy ounce with two decimals"},
		},
		Runs: ActionRuns{
			Using: "docker",
			Image: "Dockerfile",
			Args:  []string{"lookup"},
		},
		Branding: &ActionBranding{Icon: "dollar-sign", Color: "yellow"},
	}
}

// WriteMetadata encodes the action metadata as YAML
func WriteMetadata(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Metadata()); err != nil {
		return err
	}
	return enc.Close()
}
