// Command argsgen generates typed staging helpers for one client type.
//
// Staging through di.SetFor and di.TryGet is type safe already, but call sites
// still spell out the signature (di.Tuple2[int, string]) and pack or unpack
// tuples by hand. argsgen writes that boilerplate once per client from a small
// binding spec kept next to the client type.
//
// Binding spec (*.args.yaml)
//
//	package: spawner
//	client: Enemy
//	requireInit: true
//	args:
//	  - { name: health, type: int }
//	  - { name: label,  type: string }
//
// Optional keys:
//
//   - pointer: false keys the stage by Enemy instead of *Enemy.
//   - imports.packages lists import paths used by arg types (e.g. time).
//   - imports.di overrides the di import path (config: generator.di_import).
//
// A spec has 1 to 12 args with unique names. JSON specs are accepted too.
//
// Typical go:generate usage
//
//	//go:generate go run ../../cmd/argsgen generate --spec enemy.args.yaml --out enemy_args.gen.go
//
// Generated API
//
//   - <Client>Args                              // the signature alias
//   - Stage<Client>(r, args...) (di.Generation, error)
//   - TryGet<Client>Args(r, phase, c) (args..., ok, err)
//   - Clear<Client>(r) (bool, error)
//   - Instantiate<Client>(r, original, args..., clone) (<Client>, error)
//
// With requireInit the file also asserts at compile time that the client
// implements di.Initializer[<Client>Args].
//
// Configuration is read from --config and ODI_* environment variables
// (ODI_GENERATOR_DI_IMPORT, ODI_GENERATOR_HEADER, ODI_LOGGING_LEVEL).
package main
