package transform

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
)

// FakerRule generates a faker-style value for a named kind (first_name,
// last_name, email, phone, address, company, username, word, sentence, …),
// matching §1's "faker-like name/email" transformer kind, which spec.md
// names but leaves unspecified. Kind selects the gofakeit generator.
type FakerRule struct {
	Kind   string `yaml:"kind"`
	Locale string `yaml:"locale,omitempty"`

	faker *gofakeit.Faker
}

// Init constructs the faker instance with a randomly chosen seed and
// checks that Kind names a known generator.
func (f *FakerRule) Init() error {
	if f.faker == nil {
		f.faker = gofakeit.New(0)
	}
	if _, ok := fakerGenerators[f.Kind]; !ok {
		return fmt.Errorf("faker: unknown kind %q", f.Kind)
	}
	return nil
}

// Transform produces a faker value for Kind. When ctx carries a non-zero
// Seed, the value comes from a generator seeded with it, so runs are
// reproducible; otherwise the instance built by Init is used.
func (f *FakerRule) Transform(fieldName, fieldValue string, ctx *Context) (*string, error) {
	if err := f.Init(); err != nil {
		return nil, err
	}
	gen, ok := fakerGenerators[f.Kind]
	if !ok {
		return nil, fmt.Errorf("faker: unknown kind %q", f.Kind)
	}
	fk := f.faker
	if ctx != nil && ctx.Seed != 0 {
		fk = gofakeit.New(ctx.Seed)
	}
	return present(gen(fk))
}

var fakerGenerators = map[string]func(*gofakeit.Faker) string{
	"first_name": func(fk *gofakeit.Faker) string { return fk.FirstName() },
	"last_name":  func(fk *gofakeit.Faker) string { return fk.LastName() },
	"name":       func(fk *gofakeit.Faker) string { return fk.Name() },
	"email":      func(fk *gofakeit.Faker) string { return fk.Email() },
	"username":   func(fk *gofakeit.Faker) string { return fk.Username() },
	"phone":      func(fk *gofakeit.Faker) string { return fk.Phone() },
	"address":    func(fk *gofakeit.Faker) string { return fk.Address().Address },
	"city":       func(fk *gofakeit.Faker) string { return fk.City() },
	"company":    func(fk *gofakeit.Faker) string { return fk.Company() },
	"word":       func(fk *gofakeit.Faker) string { return fk.Word() },
	"sentence":   func(fk *gofakeit.Faker) string { return fk.Sentence(8) },
}
