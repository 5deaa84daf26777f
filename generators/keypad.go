package generators

/*
   The keypad grid, with lowercase letters placed on their telephone keys
   and uppercase A-D on the fourth (military) column:

                1209 Hz   1336 Hz   1477 Hz   1633 Hz
      697 Hz    1         2 abc     3 def     A
      770 Hz    4 ghi     5 jkl     6 mno     B
      852 Hz    7 pqrs    8 tuv     9 wxyz    C
      941 Hz    *         0         #         D
*/

// Symbols lists every symbol a sequence may contain.
const Symbols = "0123456789*#ABCDabcdefghijklmnopqrstuvwxyz"

// Pair is the low-group and high-group frequency of one keypad symbol, in Hz.
type Pair struct {
	Low, High float64
}

var (
	lowGroup  = [4]float64{697, 770, 852, 941}
	highGroup = [4]float64{1209, 1336, 1477, 1633}

	rows = [4]string{
		"123Aabcdef",
		"456Bghijklmno",
		"789Cpqrstuvwxyz",
		"*0#D",
	}
	cols = [4]string{
		"147*ghipqrs",
		"2580abcjkltuv",
		"369#defmnowxyz",
		"ABCD",
	}

	keypad = buildKeypad()
)

func buildKeypad() (table [128]Pair) {
	for i, set := range rows {
		for _, r := range set {
			table[r].Low = lowGroup[i]
		}
	}
	for i, set := range cols {
		for _, r := range set {
			table[r].High = highGroup[i]
		}
	}
	return table
}

// Frequencies returns the tone pair of symbol. Symbols outside the keypad return the zero Pair;
// they still occupy a tone slot, they are just silent.
func Frequencies(symbol rune) Pair {
	if symbol < 0 || int(symbol) >= len(keypad) {
		return Pair{}
	}
	return keypad[symbol]
}

// ValidSymbol reports whether symbol may appear in a sequence.
func ValidSymbol(symbol rune) bool {
	p := Frequencies(symbol)
	return p.Low != 0 && p.High != 0
}
