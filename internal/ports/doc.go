// Package ports defines the interfaces that connect the application layer
// to infrastructure adapters.
//
// # Port Interfaces
//
//   - [Bus]: IEEE-488 bus transport (initialize, listen, write, unlisten)
//   - [ProgramSource]: reads a program file into memory
//   - [ChangeNotifier]: reports changes to a watched file
//   - [Logger]: structured logging abstraction
//
// The application layer (internal/app) depends only on these interfaces.
// Adapters (internal/adapters) implement them with a serial bus controller,
// a hex dump writer, the file system and fsnotify.
package ports
