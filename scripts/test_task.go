package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// lineFilter 決定 go test 每一行怎麼印；回傳 false 代表略過
type lineFilter func(line string) bool

// 只留 ok / FAIL 與建置錯誤
func summaryOnly(line string) bool {
	switch {
	case strings.HasPrefix(line, "ok"):
		PrintGreen(line)
	case strings.HasPrefix(line, "FAIL"), strings.Contains(line, "build failed"), strings.Contains(line, "setup failed"):
		PrintRed(line)
	default:
		return false
	}
	return true
}

// 全部印出，但略過 [no test files]
func detail(line string) bool {
	switch {
	case strings.Contains(line, "[no test files]"):
		return false
	case strings.HasPrefix(line, "ok"):
		PrintGreen(line)
	case strings.HasPrefix(line, "FAIL"):
		PrintRed(line)
	default:
		fmt.Println(line)
	}
	return true
}

func cleanCache() {
	cmd := exec.Command("go", "clean", "-testcache")
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	if err := cmd.Run(); err != nil {
		PrintRed(fmt.Sprintf("go clean -testcache failed: %v", err))
		os.Exit(1)
	}
}

// goTest 執行 go test 並把 stdout+stderr 逐行交給 filter (filter 為 nil 時原樣輸出)
func goTest(title string, filter lineFilter, args ...string) {
	PrintGreen(title)
	cleanCache()

	cmd := exec.Command("go", append([]string{"test", "./..."}, args...)...)
	if filter == nil {
		cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
		if err := cmd.Run(); err != nil {
			PrintRed("\n" + title + " finished with errors\n")
			os.Exit(1)
		}
		return
	}

	pr, pw := io.Pipe()
	cmd.Stdout, cmd.Stderr = pw, pw
	if err := cmd.Start(); err != nil {
		PrintRed(fmt.Sprintf("start go test failed: %v", err))
		os.Exit(1)
	}
	done := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		pw.Close()
		done <- err
	}()

	sc := bufio.NewScanner(pr)
	for sc.Scan() {
		filter(sc.Text())
	}
	if err := <-done; err != nil {
		PrintRed("\n" + title + " finished with errors\n")
		os.Exit(1)
	}
}

func runTest()       { goTest("running tests", summaryOnly, "-cover", "-count=1") }
func runTestAll()    { goTest("running tests (all with coverage)", nil, "-cover") }
func runTestDetail() { goTest("running tests (detail)", detail, "-v", "-count=1") }
func runTestRace()   { goTest("running tests (race)", summaryOnly, "-race", "-count=1") }
