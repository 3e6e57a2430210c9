package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

func main() {
	if err := runProgram(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runProgram implements `prog <database path> <command>`: it is factored
// out of main so tests can drive it without forking a process.
func runProgram(args []string) error {
	if len(args) < 2 {
		return errors.New("Missing <database path> and <command>")
	}
	if len(args) < 3 {
		return errors.New("Missing <command>")
	}

	databasePath := args[1]
	command := strings.Join(args[2:], " ")

	db, err := OpenDatabase(databasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	formatter := NewConsoleFormatter(os.Stdout)

	switch command {
	case ".dbinfo":
		return runDBInfo(db)
	case ".tables":
		return runTables(db)
	default:
		return runSelect(db, formatter, command)
	}
}

func runDBInfo(db *Database) error {
	count, err := db.CellCount()
	if err != nil {
		return err
	}
	fmt.Printf("database page size: %v\n", db.PageSize())
	fmt.Printf("number of tables: %v\n", count)
	return nil
}

func runTables(db *Database) error {
	fmt.Println(strings.Join(db.TableNames(), " "))
	return nil
}

func runSelect(db *Database, formatter *ConsoleFormatter, sql string) error {
	stmt, err := ParseSelect(sql)
	if err != nil {
		return err
	}

	result, err := Execute(context.Background(), db, stmt)
	if err != nil {
		return err
	}

	return formatter.WriteResult(result)
}
