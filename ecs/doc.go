// Package ecs provides ECS adapters for lumen's script events.
//
// The primary adapter is [NewDonburiDispatcher], which publishes every
// script fired on a widget (OnLoad, OnClick, OnScrollRangeChanged, ...)
// into a [Donburi] world as a typed event. Subscribe to [ScriptEventType]
// in your ECS systems to receive them.
//
// Usage:
//
//	ui := lumen.NewUI(cfg, lumen.WithScripts(ecs.NewDonburiDispatcher(world)))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
