package deck

import (
	"encoding/json"
	"testing"
)

func TestParseCard(t *testing.T) {
	t.Parallel()

	cases := []struct {
		token string
		want  Card
	}{
		{"As", Card{Rank: Ace, Suit: Spades}},
		{"Td", Card{Rank: Ten, Suit: Diamonds}},
		{"2c", Card{Rank: Two, Suit: Clubs}},
		{"kh", Card{Rank: King, Suit: Hearts}},
		{"9S", Card{Rank: Nine, Suit: Spades}},
	}
	for _, tc := range cases {
		got, err := ParseCard(tc.token)
		if err != nil {
			t.Errorf("ParseCard(%q) returned error: %v", tc.token, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseCard(%q) = %v, want %v", tc.token, got, tc.want)
		}
	}
}

func TestParseCardRejectsMalformedTokens(t *testing.T) {
	t.Parallel()

	for _, token := range []string{"", "A", "Asd", "1s", "Ax", "Zc"} {
		if _, err := ParseCard(token); err == nil {
			t.Errorf("ParseCard(%q) succeeded, want error", token)
		}
	}
}

func TestCardStringRoundTrip(t *testing.T) {
	t.Parallel()

	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			card := NewCard(rank, suit)
			parsed, err := ParseCard(card.String())
			if err != nil {
				t.Fatalf("ParseCard(%q): %v", card.String(), err)
			}
			if parsed != card {
				t.Errorf("round trip %v != %v", parsed, card)
			}
		}
	}
}

func TestCardJSONShape(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Card{Rank: Ace, Suit: Spades})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"rank":"A","suit":"s"}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var card Card
	if err := json.Unmarshal([]byte(`{"rank":"T","suit":"d"}`), &card); err != nil {
		t.Fatal(err)
	}
	if card != (Card{Rank: Ten, Suit: Diamonds}) {
		t.Errorf("unmarshalled %v", card)
	}
}
