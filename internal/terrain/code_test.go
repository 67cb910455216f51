package terrain

import (
	"errors"
	"testing"
)

func TestRootCodes(t *testing.T) {
	want := []uint64{1, 33, 65, 97, 129, 161}
	for face := CubeFace(0); face < FaceCount; face++ {
		code, err := EncodePosition(face, nil)
		if err != nil {
			t.Fatalf("EncodePosition(%v) error: %v", face, err)
		}
		if code != want[face] {
			t.Errorf("EncodePosition(%v) = %d, want %d", face, code, want[face])
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]int{
		nil,
		{0},
		{3},
		{1, 2},
		{0, 1, 2, 3},
		{3, 3, 3, 3, 3, 3, 3, 3},
		{2, 0, 1, 3, 2, 0, 1, 3, 2, 0, 1, 3},
	}
	// Depth 28 is the deepest encodable address.
	deepest := make([]int, MaxCodeDepth-1)
	for i := range deepest {
		deepest[i] = i % 4
	}
	cases = append(cases, deepest)

	for face := CubeFace(0); face < FaceCount; face++ {
		for _, quadrants := range cases {
			code, err := EncodePosition(face, quadrants)
			if err != nil {
				t.Fatalf("EncodePosition(%v, %v) error: %v", face, quadrants, err)
			}
			gotFace, gotQuads, err := DecodePosition(code)
			if err != nil {
				t.Fatalf("DecodePosition(%d) error: %v", code, err)
			}
			if gotFace != face {
				t.Errorf("decode face = %v, want %v", gotFace, face)
			}
			if len(gotQuads) != len(quadrants) {
				t.Fatalf("decode depth = %d, want %d", len(gotQuads)+1, len(quadrants)+1)
			}
			for i := range quadrants {
				if gotQuads[i] != quadrants[i] {
					t.Errorf("decode quadrant[%d] = %d, want %d", i, gotQuads[i], quadrants[i])
				}
			}
		}
	}
}

func TestEncodeOverflow(t *testing.T) {
	tooDeep := make([]int, MaxCodeDepth) // depth 29
	if _, err := EncodePosition(FacePosX, tooDeep); !errors.Is(err, ErrCodeOverflow) {
		t.Errorf("expected ErrCodeOverflow, got %v", err)
	}
}

func TestEncodeBadArguments(t *testing.T) {
	if _, err := EncodePosition(CubeFace(6), nil); !errors.Is(err, ErrArgument) {
		t.Errorf("face 6: expected ErrArgument, got %v", err)
	}
	if _, err := EncodePosition(FacePosX, []int{4}); !errors.Is(err, ErrArgument) {
		t.Errorf("quadrant 4: expected ErrArgument, got %v", err)
	}
	if _, err := EncodePosition(FacePosX, []int{-1}); !errors.Is(err, ErrArgument) {
		t.Errorf("quadrant -1: expected ErrArgument, got %v", err)
	}
}

func TestDecodeBadCodes(t *testing.T) {
	if _, _, err := DecodePosition(0); !errors.Is(err, ErrArgument) {
		t.Errorf("depth 0: expected ErrArgument, got %v", err)
	}
	// Depth 1, face 6 does not exist.
	if _, _, err := DecodePosition(1 | 6<<5); !errors.Is(err, ErrArgument) {
		t.Errorf("face 6: expected ErrArgument, got %v", err)
	}
	if _, _, err := DecodePosition(29); !errors.Is(err, ErrArgument) {
		t.Errorf("depth 29: expected ErrArgument, got %v", err)
	}
}
