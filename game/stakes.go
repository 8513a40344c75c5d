package game

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// StakesTier maps a buy-in range to fixed blind sizes.
type StakesTier struct {
	MaxBuyIn   int64 `yaml:"maxBuyIn"`
	SmallBlind int64 `yaml:"smallBlind"`
	BigBlind   int64 `yaml:"bigBlind"`
}

// StakesConfig is an optional operator supplied tier table. Without one,
// blinds derive from the buy-in: big blind at 5 percent, minimum 2.
type StakesConfig struct {
	Tiers []StakesTier `yaml:"tiers"`
}

func ParseStakesConfig(fileName string) (*StakesConfig, error) {
	data, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "reading stakes config %s", fileName)
	}
	var config StakesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrapf(err, "parsing stakes config %s", fileName)
	}
	return &config, nil
}

// BlindsFor picks the blind sizes for a buy-in. Tiers are checked in
// order; the derivation rule applies when no tier matches or no config
// is loaded.
func (s *StakesConfig) BlindsFor(buyIn int64) (int64, int64) {
	if s != nil {
		for _, tier := range s.Tiers {
			if buyIn <= tier.MaxBuyIn {
				return tier.SmallBlind, tier.BigBlind
			}
		}
	}
	bigBlind := buyIn * 5 / 100
	if bigBlind < 2 {
		bigBlind = 2
	}
	smallBlind := bigBlind / 2
	if smallBlind < 1 {
		smallBlind = 1
	}
	return smallBlind, bigBlind
}
