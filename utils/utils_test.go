package utils

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestRankScores(t *testing.T) {
	got := RankScores([]float64{0.9, 0.8, 0.8, 0.5})
	want := []int{1, 2, 2, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("RankScores = %v, want %v", got, want)
		}
	}
	if len(RankScores(nil)) != 0 {
		t.Error("expected no ranks for no scores")
	}
}

func TestPointsForRank(t *testing.T) {
	cases := map[int]int{0: 0, 1: 100, 2: 75, 3: 50, 7: 20, 11: 5}
	for rank, want := range cases {
		if got := PointsForRank(rank); got != want {
			t.Errorf("PointsForRank(%d) = %d, want %d", rank, got, want)
		}
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash must not be the plaintext")
	}
	if !CheckPasswordHash("s3cret", hash) {
		t.Error("expected the password to match its hash")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("expected a wrong password to fail")
	}
	if CheckPasswordHash("s3cret", "") {
		t.Error("an empty hash must never match")
	}
}

func TestValidators(t *testing.T) {
	v := validator.New()
	if err := registerOn(v); err != nil {
		t.Fatalf("registerOn: %v", err)
	}

	type input struct {
		Category string `validate:"competition_category"`
		Status   string `validate:"competition_status"`
		Username string `validate:"username"`
	}

	ok := input{Category: "NLP", Status: "ongoing", Username: "minh.nguyen"}
	if err := v.Struct(ok); err != nil {
		t.Errorf("expected valid input, got %v", err)
	}

	bad := input{Category: "Robotics", Status: "paused", Username: "a b"}
	err := v.Struct(bad)
	verrs, isValidation := err.(validator.ValidationErrors)
	if !isValidation || len(verrs) != 3 {
		t.Errorf("expected three validation errors, got %v", err)
	}
}
