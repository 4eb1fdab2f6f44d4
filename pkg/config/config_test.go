//go:build !integration

package config

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("validateConfig", func() {
	var cfg *ServerConfig

	BeforeEach(func() {
		cfg = DefaultConfig()
	})

	It("accepts the defaults", func() {
		Expect(validateConfig(cfg)).To(Succeed())
	})

	It("rejects an unknown transport", func() {
		cfg.Transport.Type = "websocket"
		Expect(validateConfig(cfg)).NotTo(Succeed())
	})

	It("rejects an invalid SSE port", func() {
		cfg.Transport.Type = "sse"
		cfg.Transport.Port = 0
		Expect(validateConfig(cfg)).NotTo(Succeed())
	})

	It("ignores the port for stdio transport", func() {
		cfg.Transport.Type = "stdio"
		cfg.Transport.Port = 0
		Expect(validateConfig(cfg)).To(Succeed())
	})

	It("rejects an empty bridge python path", func() {
		cfg.Bridge.PythonPath = ""
		Expect(validateConfig(cfg)).NotTo(Succeed())
	})

	It("rejects a non-positive bridge timeout", func() {
		cfg.Bridge.Timeout = 0
		Expect(validateConfig(cfg)).NotTo(Succeed())
	})

	It("rejects an unknown llm provider", func() {
		cfg.LLM.Provider = "bard"
		Expect(validateConfig(cfg)).NotTo(Succeed())
	})

	It("rejects an unknown log level", func() {
		cfg.LogLevel = "verbose"
		Expect(validateConfig(cfg)).NotTo(Succeed())
	})
})

var _ = Describe("LLMConfig", func() {
	Describe("ModelName", func() {
		It("prefers the configured model", func() {
			cfg := LLMConfig{Provider: "anthropic", Model: "claude-3-5-haiku-20241022"}
			Expect(cfg.ModelName()).To(Equal("claude-3-5-haiku-20241022"))
		})

		It("falls back to a provider default", func() {
			Expect(LLMConfig{Provider: "anthropic"}.ModelName()).To(Equal("claude-sonnet-4-20250514"))
			Expect(LLMConfig{Provider: "openrouter"}.ModelName()).To(Equal("anthropic/claude-sonnet-4-20250514"))
			Expect(LLMConfig{Provider: "openai"}.ModelName()).To(Equal("gpt-4o"))
		})
	})

	Describe("ResolveAPIKey", func() {
		It("prefers the configured key", func() {
			cfg := LLMConfig{Provider: "anthropic", APIKey: "configured"}
			key, err := cfg.ResolveAPIKey()
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(Equal("configured"))
		})

		It("falls back to the provider environment variable", func() {
			GinkgoT().Setenv("ANTHROPIC_API_KEY", "from-env")
			key, err := LLMConfig{Provider: "anthropic"}.ResolveAPIKey()
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(Equal("from-env"))
		})

		It("fails for hosted providers without a key", func() {
			GinkgoT().Setenv("ANTHROPIC_API_KEY", "")
			_, err := LLMConfig{Provider: "anthropic"}.ResolveAPIKey()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("ANTHROPIC_API_KEY"))
		})

		It("allows local providers to run keyless", func() {
			for _, provider := range []string{"lmstudio", "custom"} {
				key, err := LLMConfig{Provider: provider}.ResolveAPIKey()
				Expect(err).NotTo(HaveOccurred())
				Expect(key).To(BeEmpty())
			}
		})
	})
})
