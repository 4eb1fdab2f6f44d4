//go:build !integration

package engine_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reelcraft/resolve-mcp/internal/engine"
)

var _ = Describe("Plan model", func() {
	Describe("OperationStep", func() {
		It("defaults missing params to an empty object", func() {
			var step engine.OperationStep
			Expect(json.Unmarshal([]byte(`{"op": "save_project"}`), &step)).To(Succeed())
			Expect(step.Op).To(Equal("save_project"))
			Expect(string(step.Params)).To(MatchJSON(`{}`))
		})

		It("treats explicit null params as absent", func() {
			var step engine.OperationStep
			Expect(json.Unmarshal([]byte(`{"op": "save_project", "params": null}`), &step)).To(Succeed())
			Expect(string(step.Params)).To(MatchJSON(`{}`))
		})

		It("passes structured params through untouched", func() {
			raw := `{"op": "add_marker", "params": {"frame": 10, "color": "Red", "nested": {"a": [1, 2]}}}`
			var step engine.OperationStep
			Expect(json.Unmarshal([]byte(raw), &step)).To(Succeed())
			Expect(string(step.Params)).To(MatchJSON(`{"frame": 10, "color": "Red", "nested": {"a": [1, 2]}}`))
		})

		It("always marshals a params field", func() {
			data, err := json.Marshal(engine.OperationStep{Op: "save_project"})
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(MatchJSON(`{"op": "save_project", "params": {}}`))
		})
	})

	Describe("Precondition", func() {
		It("round-trips unknown precondition types losslessly", func() {
			raw := `{"type": "color_page_open", "page": "color", "strict": true}`
			var precondition engine.Precondition
			Expect(json.Unmarshal([]byte(raw), &precondition)).To(Succeed())
			Expect(precondition.Type).To(Equal("color_page_open"))

			data, err := json.Marshal(precondition)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(MatchJSON(raw))
		})
	})

	Describe("Plan", func() {
		It("parses the executable wire form", func() {
			raw := `{
				"version": "1.0",
				"target": {"project": "Demo", "timeline": "Main"},
				"preconditions": [{"type": "project_open"}, {"type": "timeline_exists", "name": "Main"}],
				"operations": [{"op": "add_marker", "params": {"frame": 10, "color": "Red"}}]
			}`

			var plan engine.Plan
			Expect(json.Unmarshal([]byte(raw), &plan)).To(Succeed())
			Expect(plan.IsError()).To(BeFalse())
			Expect(plan.Version).To(Equal("1.0"))
			Expect(*plan.Target.Project).To(Equal("Demo"))
			Expect(*plan.Target.Timeline).To(Equal("Main"))
			Expect(plan.Preconditions).To(HaveLen(2))
			Expect(plan.Preconditions[1].Type).To(Equal("timeline_exists"))
			Expect(plan.Operations).To(HaveLen(1))
		})

		It("parses the error wire form", func() {
			raw := `{"version": "1.0", "error": "Cannot move clips", "suggestion": "Reorder manually"}`

			var plan engine.Plan
			Expect(json.Unmarshal([]byte(raw), &plan)).To(Succeed())
			Expect(plan.IsError()).To(BeTrue())
			Expect(plan.Error).To(Equal("Cannot move clips"))
			Expect(plan.Suggestion).To(Equal("Reorder manually"))
		})

		It("round-trips preconditions through a marshal cycle", func() {
			raw := `{
				"version": "1.0",
				"preconditions": [{"type": "timeline_exists", "name": "Main"}],
				"operations": [{"op": "set_timeline", "params": {"name": "Main"}}]
			}`

			var plan engine.Plan
			Expect(json.Unmarshal([]byte(raw), &plan)).To(Succeed())

			data, err := json.Marshal(&plan)
			Expect(err).NotTo(HaveOccurred())

			var reparsed engine.Plan
			Expect(json.Unmarshal(data, &reparsed)).To(Succeed())
			Expect(reparsed.Preconditions).To(HaveLen(1))
			Expect(reparsed.Preconditions[0].Type).To(Equal("timeline_exists"))

			redata, err := json.Marshal(reparsed.Preconditions[0])
			Expect(err).NotTo(HaveOccurred())
			Expect(string(redata)).To(MatchJSON(`{"type": "timeline_exists", "name": "Main"}`))
		})
	})
})

var _ = Describe("Validation", func() {
	It("rejects a batch containing an empty operation name", func() {
		steps := []engine.OperationStep{
			{Op: "add_marker"},
			{Op: ""},
			{Op: "save_project"},
		}

		err := engine.ValidateSteps(steps)
		Expect(err).To(HaveOccurred())

		var validationErr *engine.ValidationError
		Expect(err).To(BeAssignableToTypeOf(validationErr))
		Expect(err.(*engine.ValidationError).Index).To(Equal(1))
	})

	It("rejects whitespace-only operation names", func() {
		err := engine.ValidateSteps([]engine.OperationStep{{Op: "   "}})
		Expect(err).To(HaveOccurred())
	})

	It("accepts the same batch once the name is filled in", func() {
		steps := []engine.OperationStep{
			{Op: "add_marker"},
			{Op: "delete_marker"},
			{Op: "save_project"},
		}
		Expect(engine.ValidateSteps(steps)).To(Succeed())
	})

	It("accepts an empty batch", func() {
		Expect(engine.ValidateSteps(nil)).To(Succeed())
	})

	It("trivially accepts an error-state plan", func() {
		plan := &engine.Plan{
			Version: "1.0",
			Error:   "Cannot create transitions",
			Operations: []engine.OperationStep{
				{Op: ""},
			},
		}
		Expect(plan.Validate()).To(Succeed())
	})

	It("is idempotent on an unmodified plan", func() {
		plan := &engine.Plan{
			Version:    "1.0",
			Operations: []engine.OperationStep{{Op: "add_marker"}},
		}

		first := plan.Validate()
		second := plan.Validate()
		Expect(first).To(Succeed())
		Expect(second).To(Succeed())

		invalid := &engine.Plan{Operations: []engine.OperationStep{{Op: ""}}}
		Expect(invalid.Validate().Error()).To(Equal(invalid.Validate().Error()))
	})
})
