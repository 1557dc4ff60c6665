package runid_test

import (
	"encoding"
	"encoding/json"
	"reflect"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/runid"
)

var _ = Describe("New", func() {
	It("should allocate distinct IDs", func() {
		a := runid.New()
		b := runid.New()

		Expect(a).NotTo(Equal(b))
	})

	It("should make copies indistinguishable from the original", func() {
		a := runid.New()
		aCopy := a

		Expect(a).To(Equal(a))
		Expect(aCopy).To(Equal(a))
	})

	It("should never return the zero ID", func() {
		Expect(runid.New()).NotTo(Equal(runid.ID{}))
	})

	It("should allocate distinct IDs from concurrent goroutines", func() {
		const (
			goroutines   = 32
			perGoroutine = 10000
		)

		batches := make([][]runid.ID, goroutines)

		var wg sync.WaitGroup
		for g := 0; g < goroutines; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()

				batch := make([]runid.ID, 0, perGoroutine)
				for i := 0; i < perGoroutine; i++ {
					batch = append(batch, runid.New())
				}

				batches[g] = batch
			}(g)
		}
		wg.Wait()

		seen := make(map[runid.ID]struct{}, goroutines*perGoroutine)
		for _, batch := range batches {
			for _, id := range batch {
				seen[id] = struct{}{}
			}
		}

		Expect(seen).To(HaveLen(goroutines * perGoroutine))
	})
})

var _ = Describe("ID", func() {
	It("should work as a map key", func() {
		owner := map[runid.ID]string{}

		a := runid.New()
		b := runid.New()
		owner[a] = "a"
		owner[b] = "b"

		aCopy := a
		Expect(owner[aCopy]).To(Equal("a"))
		Expect(owner).To(HaveLen(2))
	})

	It("should render a stable, opaque string", func() {
		a := runid.New()
		b := runid.New()

		Expect(a.String()).To(Equal(a.String()))
		Expect(a.String()).NotTo(Equal(b.String()))
		Expect(a.String()).To(MatchRegexp(`^runid\.ID\([0-9a-f]{16}\)$`))
	})

	It("should expose only hashing and a debug string as methods", func() {
		idType := reflect.TypeOf(runid.ID{})

		methods := make([]string, 0, idType.NumMethod())
		for i := 0; i < idType.NumMethod(); i++ {
			methods = append(methods, idType.Method(i).Name)
		}

		Expect(methods).To(ConsistOf("Hash", "String"))

		for i := 0; i < idType.NumField(); i++ {
			Expect(idType.Field(i).IsExported()).To(BeFalse())
		}
	})

	It("should not satisfy the standard marshaling interfaces", func() {
		var id any = runid.New()

		_, isText := id.(encoding.TextMarshaler)
		_, isBinary := id.(encoding.BinaryMarshaler)
		_, isJSON := id.(json.Marshaler)

		Expect(isText).To(BeFalse())
		Expect(isBinary).To(BeFalse())
		Expect(isJSON).To(BeFalse())
	})
})
