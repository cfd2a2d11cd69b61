package malloc

import "testing"

func TestRoundup(t *testing.T) {
	testcases := [][2]int64{
		{0, 8}, {1, 8}, {7, 8}, {8, 8}, {9, 16}, {15, 16}, {16, 16},
		{17, 24}, {1023, 1024}, {Maxbytes - 1, Maxbytes},
		{Maxbytes, Maxbytes},
	}
	for _, tcase := range testcases {
		if x := Roundup(tcase[0]); x != tcase[1] {
			t.Errorf("Roundup(%v): expected %v, got %v", tcase[0], tcase[1], x)
		}
	}
}

func TestBlockindex(t *testing.T) {
	testcases := []struct {
		n     int64
		index int
	}{
		{0, 0}, {1, 0}, {8, 0}, {9, 1}, {16, 1}, {17, 2},
		{128, 15}, {1024, 127}, {Maxbytes, Freelistsize - 1},
	}
	for _, tcase := range testcases {
		if x := Blockindex(tcase.n); x != tcase.index {
			t.Errorf("Blockindex(%v): expected %v, got %v", tcase.n, tcase.index, x)
		}
	}
	for index := 0; index < Freelistsize; index += 97 {
		if x := Blockindex(Blocksize(index)); x != index {
			t.Errorf("index %v round-trips to %v", index, x)
		}
	}
}

func TestBatchsize(t *testing.T) {
	testcases := []struct {
		blocksize int64
		batch     int64
	}{
		{8, 64}, {32, 64}, {40, 32}, {64, 32}, {128, 16}, {256, 8},
		{512, 4}, {1024, 2}, {2048, 1}, {4096, 1}, {8192, 1},
		{Maxbytes, 1},
	}
	for _, tcase := range testcases {
		if x := batchsize(tcase.blocksize, Batchmaxbytes); x != tcase.batch {
			t.Errorf("batchsize(%v): expected %v, got %v",
				tcase.blocksize, tcase.batch, x)
		}
	}
	// a tighter byte bound caps the batch below its base
	if x := batchsize(32, 1024); x != 32 {
		t.Errorf("expected %v, got %v", 32, x)
	}
	if x := batchsize(8192, 4096); x != 1 {
		t.Errorf("expected %v, got %v", 1, x)
	}
}
