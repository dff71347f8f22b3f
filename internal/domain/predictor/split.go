package predictor

import (
	"math"
	"math/rand"
	"sort"
)

// stratifiedSplit partitions row indices into train and eval sets keeping
// the class ratio. Each class is shuffled with its own draw from the seeded
// source; a class too small to give up a row stays entirely in train.
func stratifiedSplit(labels []bool, evalFraction float64, seed int64) (train, eval []int) {
	rng := rand.New(rand.NewSource(seed))

	var negatives, positives []int
	for i, l := range labels {
		if l {
			positives = append(positives, i)
		} else {
			negatives = append(negatives, i)
		}
	}

	for _, class := range [][]int{negatives, positives} {
		rng.Shuffle(len(class), func(i, j int) {
			class[i], class[j] = class[j], class[i]
		})
		n := int(math.Round(float64(len(class)) * evalFraction))
		if n >= len(class) {
			n = len(class) - 1
		}
		if n < 0 {
			n = 0
		}
		eval = append(eval, class[:n]...)
		train = append(train, class[n:]...)
	}

	sort.Ints(train)
	sort.Ints(eval)
	return train, eval
}

func allRows(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func hasBothClasses(labels []bool, rows []int) bool {
	var pos, neg bool
	for _, i := range rows {
		if labels[i] {
			pos = true
		} else {
			neg = true
		}
		if pos && neg {
			return true
		}
	}
	return false
}
