package main

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestDecideCompareAdd(t *testing.T) {
	burger := menuItem{ID: 7, Restaurant: "Mcdonalds", Item: "Big Mac"}
	burrito := menuItem{ID: 9, Restaurant: "Taco Bell", Item: "Bean Burrito"}
	cases := []struct {
		name    string
		current []menuItem
		itemID  int
		want    error
	}{
		{"empty list", nil, 7, nil},
		{"one slot left", []menuItem{burger}, 9, nil},
		{"already listed", []menuItem{burger}, 7, errAlreadyListed},
		{"already listed when full", []menuItem{burger, burrito}, 9, errAlreadyListed},
		{"full", []menuItem{burger, burrito}, 11, errCompareFull},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := decideCompareAdd(tc.current, tc.itemID); !errors.Is(got, tc.want) {
				t.Errorf("decideCompareAdd = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCompareAddStatus(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"added", nil, http.StatusCreated, ""},
		{"already listed is a no-op", errAlreadyListed, http.StatusOK, ""},
		{"unknown item", errUnknownItem, http.StatusNotFound, "item not found"},
		{"list full", errCompareFull, http.StatusConflict, "you can only compare two items at a time"},
		{"wrapped sentinel", fmt.Errorf("tx: %w", errCompareFull), http.StatusConflict, "you can only compare two items at a time"},
		{"database failure", errors.New("connection reset"), http.StatusInternalServerError, "failed to update compare list"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, msg := compareAddStatus(tc.err)
			if status != tc.wantStatus || msg != tc.wantMessage {
				t.Errorf("compareAddStatus = %d %q, want %d %q", status, msg, tc.wantStatus, tc.wantMessage)
			}
		})
	}
}
