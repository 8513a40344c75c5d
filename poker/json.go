package poker

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func jsonUnmarshalCards(b []byte, cards *[]Card) error {
	return json.Unmarshal(b, cards)
}
