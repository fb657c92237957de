// Package pkg holds the public libraries of sruja-layout, a layout engine
// for hierarchical C4 architecture diagrams.
//
// # Overview
//
// The packages form three layers:
//
//  1. Geometry and model: [geom] (points, sizes, rectangles) and [model]
//     (elements, levels, relationships, positioned nodes)
//  2. Layout: [hierarchy] builds the element tree, [measure] and [sizing]
//     size nodes from their labels, [layout] arranges and refits them, with
//     the algorithms in layout/c4, layout/grid, layout/sugiyama,
//     layout/containment and layout/viewport. [dag] provides the layered
//     graph primitives Sugiyama runs on.
//  3. Orchestration: [diagram] reads documents and writes layouts,
//     [pipeline] runs layouts with caching through [cache], and [session]
//     keeps per-client measurement caches for the HTTP server.
//
// # Data Flow
//
//	diagram document (JSON/TOML)
//	         ↓
//	    [hierarchy] tree + [sizing] node sizes
//	         ↓
//	    [layout] engine (per-group strategy, containment, viewport)
//	         ↓
//	    [diagram] layout JSON (boxes, ports, edge hints)
//
// Cross-cutting concerns live in [errors] (coded errors), [observability]
// (hooks for metrics and tracing) and [buildinfo] (version metadata).
//
// # Quick Start
//
//	doc, err := diagram.ReadDocumentFile("bank.json")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := runner.Execute(ctx, doc, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	diagram.WriteLayout(res.Layout, os.Stdout)
//
// [geom]: github.com/sruja-ai/sruja-sub008/pkg/geom
// [model]: github.com/sruja-ai/sruja-sub008/pkg/model
// [hierarchy]: github.com/sruja-ai/sruja-sub008/pkg/hierarchy
// [measure]: github.com/sruja-ai/sruja-sub008/pkg/measure
// [sizing]: github.com/sruja-ai/sruja-sub008/pkg/sizing
// [layout]: github.com/sruja-ai/sruja-sub008/pkg/layout
// [dag]: github.com/sruja-ai/sruja-sub008/pkg/dag
// [diagram]: github.com/sruja-ai/sruja-sub008/pkg/diagram
// [pipeline]: github.com/sruja-ai/sruja-sub008/pkg/pipeline
// [cache]: github.com/sruja-ai/sruja-sub008/pkg/cache
// [session]: github.com/sruja-ai/sruja-sub008/pkg/session
// [errors]: github.com/sruja-ai/sruja-sub008/pkg/errors
// [observability]: github.com/sruja-ai/sruja-sub008/pkg/observability
// [buildinfo]: github.com/sruja-ai/sruja-sub008/pkg/buildinfo
package pkg
