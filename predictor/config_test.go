package predictor_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/predictor"
)

var _ = Describe("Config", func() {
	Describe("DefaultConfig", func() {
		It("should use the classic defaults", func() {
			c := predictor.DefaultConfig()
			Expect(c.Scheme).To(Equal(predictor.Static))
			Expect(c.GHistoryBits).To(Equal(uint(14)))
			Expect(c.LHistoryBits).To(Equal(uint(10)))
			Expect(c.PCIndexBits).To(Equal(uint(10)))
			Expect(c.Validate()).To(Succeed())
		})
	})

	Describe("ParseOption", func() {
		var c *predictor.Config

		BeforeEach(func() {
			c = predictor.DefaultConfig()
		})

		It("should parse gshare", func() {
			Expect(c.ParseOption("gshare:13")).To(Succeed())
			Expect(c.Scheme).To(Equal(predictor.Gshare))
			Expect(c.GHistoryBits).To(Equal(uint(13)))
		})

		It("should accept the leading dashes of the classic flag", func() {
			Expect(c.ParseOption("--tournament:9:10:11")).To(Succeed())
			Expect(c.Scheme).To(Equal(predictor.Tournament))
			Expect(c.GHistoryBits).To(Equal(uint(9)))
			Expect(c.LHistoryBits).To(Equal(uint(10)))
			Expect(c.PCIndexBits).To(Equal(uint(11)))
		})

		It("should treat custom as perceptron and keep defaults", func() {
			Expect(c.ParseOption("custom")).To(Succeed())
			Expect(c.Scheme).To(Equal(predictor.Perceptron))
			Expect(c.GHistoryBits).To(Equal(uint(14)))
			Expect(c.PCIndexBits).To(Equal(uint(10)))
		})

		It("should parse perceptron widths", func() {
			Expect(c.ParseOption("perceptron:20:8")).To(Succeed())
			Expect(c.GHistoryBits).To(Equal(uint(20)))
			Expect(c.PCIndexBits).To(Equal(uint(8)))
		})

		It("should reject unknown schemes", func() {
			err := c.ParseOption("bimodal:4")
			Expect(err).To(MatchError(predictor.ErrInvalidScheme))
			Expect(c.Scheme).To(Equal(predictor.Static))
		})

		It("should reject bad widths", func() {
			Expect(c.ParseOption("gshare:x")).To(MatchError(predictor.ErrInvalidWidth))
		})

		It("should reject extra fields", func() {
			Expect(c.ParseOption("gshare:1:2")).To(MatchError(predictor.ErrInvalidScheme))
		})

		It("should leave the config untouched when a later width is bad", func() {
			Expect(c.ParseOption("tournament:9:x:10")).To(MatchError(predictor.ErrInvalidWidth))
			Expect(c).To(Equal(predictor.DefaultConfig()))
		})

		It("should round-trip through String", func() {
			Expect(c.ParseOption("tournament:9:10:10")).To(Succeed())
			Expect(c.String()).To(Equal("tournament:9:10:10"))
		})
	})

	Describe("Validate", func() {
		It("should allow zero widths for static", func() {
			c := &predictor.Config{Scheme: predictor.Static}
			Expect(c.Validate()).To(Succeed())
		})

		It("should reject a zero gshare width", func() {
			c := &predictor.Config{Scheme: predictor.Gshare}
			Expect(c.Validate()).To(MatchError(predictor.ErrInvalidWidth))
		})

		It("should reject widths above MaxBits", func() {
			c := &predictor.Config{Scheme: predictor.Gshare, GHistoryBits: predictor.MaxBits + 1}
			Expect(c.Validate()).To(MatchError(predictor.ErrInvalidWidth))
		})

		It("should require all three tournament widths", func() {
			c := &predictor.Config{Scheme: predictor.Tournament, GHistoryBits: 4, LHistoryBits: 4}
			err := c.Validate()
			Expect(err).To(MatchError(predictor.ErrInvalidWidth))
			Expect(err.Error()).To(ContainSubstring("pc_index_bits"))
		})

		It("should cap perceptron storage", func() {
			c := &predictor.Config{Scheme: predictor.Perceptron, GHistoryBits: 24, PCIndexBits: 24}
			Expect(c.Validate()).To(MatchError(predictor.ErrInvalidWidth))
		})

		It("should reject an unknown scheme", func() {
			c := &predictor.Config{Scheme: predictor.SchemeType(42)}
			Expect(c.Validate()).To(MatchError(predictor.ErrInvalidScheme))
		})

		It("should reject a config with no scheme selected", func() {
			Expect((&predictor.Config{}).Validate()).To(MatchError(predictor.ErrInvalidScheme))
		})
	})

	Describe("JSON files", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "bpsim-config-*")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should save and load a config", func() {
			path := filepath.Join(tempDir, "config.json")
			c := &predictor.Config{
				Scheme:          predictor.Perceptron,
				GHistoryBits:    16,
				PCIndexBits:     8,
				PerceptronTheta: 40,
			}
			Expect(c.SaveConfig(path)).To(Succeed())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`"scheme": "perceptron"`))

			loaded, err := predictor.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(c))
		})

		It("should fill missing fields with defaults", func() {
			path := filepath.Join(tempDir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"scheme":"gshare","ghistory_bits":13}`), 0644)).To(Succeed())

			loaded, err := predictor.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Scheme).To(Equal(predictor.Gshare))
			Expect(loaded.GHistoryBits).To(Equal(uint(13)))
			Expect(loaded.LHistoryBits).To(Equal(uint(10)))
		})

		It("should reject an unknown scheme name", func() {
			path := filepath.Join(tempDir, "bad.json")
			Expect(os.WriteFile(path, []byte(`{"scheme":"bimodal"}`), 0644)).To(Succeed())

			_, err := predictor.LoadConfig(path)
			Expect(err).To(MatchError(predictor.ErrInvalidScheme))
		})

		It("should reject a file without a scheme", func() {
			path := filepath.Join(tempDir, "noscheme.json")
			Expect(os.WriteFile(path, []byte(`{"ghistory_bits":13}`), 0644)).To(Succeed())

			_, err := predictor.LoadConfig(path)
			Expect(err).To(MatchError(predictor.ErrInvalidScheme))
		})

		It("should reject unknown keys", func() {
			path := filepath.Join(tempDir, "typo.json")
			Expect(os.WriteFile(path, []byte(`{"schme":"gshare","ghistory_bits":13}`), 0644)).To(Succeed())

			_, err := predictor.LoadConfig(path)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(`unknown field "schme"`))
		})

		It("should fail on a missing file", func() {
			_, err := predictor.LoadConfig(filepath.Join(tempDir, "missing.json"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to read"))
		})
	})

	It("should clone independently", func() {
		c := predictor.DefaultConfig()
		clone := c.Clone()
		clone.GHistoryBits = 3
		Expect(c.GHistoryBits).To(Equal(uint(14)))
	})

	It("should use the classic display names", func() {
		Expect(predictor.Static.DisplayName()).To(Equal("Static"))
		Expect(predictor.Gshare.DisplayName()).To(Equal("Gshare"))
		Expect(predictor.Tournament.DisplayName()).To(Equal("Tournament"))
		Expect(predictor.Perceptron.DisplayName()).To(Equal("Custom"))
	})
})
