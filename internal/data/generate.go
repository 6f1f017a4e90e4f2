package data

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

var brands = []string{"Ford", "Toyota", "BMW", "Chevrolet", "Audi", "Honda", "Jeep"}
var modelsByBrand = map[string][]string{
	"Ford":      {"F-150", "Mustang", "Explorer"},
	"Toyota":    {"Camry", "Corolla", "RAV4"},
	"BMW":       {"330i", "X5", "M4"},
	"Chevrolet": {"Silverado", "Malibu", "Tahoe"},
	"Audi":      {"A4", "Q5", "S5"},
	"Honda":     {"Civic", "Accord", "CR-V"},
	"Jeep":      {"Wrangler", "Cherokee", "Compass"},
}
var engineShapes = []string{"%.1fHP 2.0L 4 Cylinder", "%.1fHP 3.5L V6", "%.1fHP 5.0L V8", "%.1fHP 3.0L Turbo"}

// GenerateSyntheticListings writes n raw-format listing rows to outPath. The
// raw fields carry the source dataset's formatting quirks (thousands
// separators, unit suffixes, free-text engine and accident columns) so the
// output exercises the extractor. Roughly 6% of rows have a missing field and
// about 1% carry an extreme price or mileage.
func GenerateSyntheticListings(n int, seed int64, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"brand", "model", "model_year", "milage", "engine", "accident", "price"}
	if err := w.Write(header); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		brand := brands[rng.Intn(len(brands))]
		model := modelsByBrand[brand][rng.Intn(3)]
		year := 2004 + rng.Intn(20)
		mileage := 5000 + rng.Intn(140000)
		hp := 120.0 + float64(rng.Intn(40))*10
		accident := rng.Float64() < 0.25

		// Price follows age, mileage, horsepower and accident history with
		// noise, so the fitted models have real signal to recover.
		price := 62000 - 1800*(2024-year) - mileage/8 + int(90*hp) - 12000
		if accident {
			price -= 4500
		}
		price += rng.Intn(6000) - 3000
		if price < 2000 {
			price = 2000 + rng.Intn(1500)
		}

		mileageRaw := groupDigits(mileage) + " mi."
		priceRaw := "$" + groupDigits(price)
		engineRaw := fmt.Sprintf(engineShapes[rng.Intn(len(engineShapes))], hp)
		accidentRaw := "None reported"
		if accident {
			accidentRaw = "At least 1 accident or damage reported"
		}

		switch {
		case rng.Float64() < 0.01:
			priceRaw = "$" + groupDigits(price*12) // extreme price
		case rng.Float64() < 0.01:
			mileageRaw = groupDigits(mileage*10) + " mi." // extreme mileage
		}
		switch {
		case rng.Float64() < 0.02:
			engineRaw = "Electric Motor" // no horsepower token
		case rng.Float64() < 0.02:
			accidentRaw = ""
		case rng.Float64() < 0.02:
			mileageRaw = ""
		}

		rec := []string{brand, model, strconv.Itoa(year), mileageRaw, engineRaw, accidentRaw, priceRaw}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func groupDigits(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}
